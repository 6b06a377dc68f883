package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/comitanigiacomo/kanso-tracker/internal/app"
	adapterHTTP "github.com/comitanigiacomo/kanso-tracker/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-tracker/internal/config"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/workers"
	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

const tokenIssuer = "kanso-tracker"

type server struct {
	backend   *app.Backend
	router    *gin.Engine
	scheduler *workers.ReminderScheduler
	limiter   *middleware.LocalRateLimiter
}

func newServer(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*server, error) {
	backend, err := app.Open(ctx, cfg, true)
	if err != nil {
		return nil, err
	}

	var notifier workers.Notifier = workers.LogNotifier{}
	if !cfg.NotificationsGranted {
		notifier = workers.DisabledNotifier{}
	}
	scheduler := workers.NewReminderScheduler(notifier, cfg.Location)

	lock := &domain.AccessLock{PassphraseHash: cfg.AccessPassphraseHash}
	auth := services.NewAuthService(lock, services.NewTokenService(cfg.JWTSecret, tokenIssuer, cfg.TokenTTL))

	tracker := backend.Tracker
	clock := func() time.Time { return time.Now().In(cfg.Location) }

	deps := adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(auth),
		HabitHandler:    adapterHTTP.NewHabitHandler(tracker, clock),
		EntryHandler:    adapterHTTP.NewEntryHandler(tracker, clock),
		StatsHandler:    adapterHTTP.NewStatsHandler(services.NewStatsService(tracker), tracker, clock),
		ReminderHandler: adapterHTTP.NewReminderHandler(scheduler, tracker, clock),
		AuthService:     auth,
		Redis:           backend.Redis,
		RateLimit:       cfg.RateLimit,
		RateWindow:      cfg.RateWindow,
		Metrics:         reg,
		StartTime:       time.Now(),
	}
	if backend.Store != nil {
		deps.Store = backend.Store
	}

	var limiter *middleware.LocalRateLimiter
	if backend.Redis == nil && cfg.RateLimit > 0 {
		limiter = middleware.NewLocalRateLimiter(cfg.RateLimit, cfg.RateWindow)
		deps.LocalLimiter = limiter
	}

	return &server{
		backend:   backend,
		router:    adapterHTTP.NewRouter(deps),
		scheduler: scheduler,
		limiter:   limiter,
	}, nil
}

// start launches the background workers. They stop when ctx is cancelled.
func (s *server) start(ctx context.Context) {
	go s.scheduler.Run(ctx)
	if s.limiter != nil {
		go s.limiter.Cleanup(ctx, time.Minute, 3*time.Minute)
	}
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	extra := append(services.Collectors(), workers.Collectors()...)
	middleware.InitPrometheus(reg, extra...)
	return reg
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.DataDir}); err != nil {
		logger.Fatal("Failed to initialise logger", "err", err)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Opening habit store", "driver", cfg.Database.Driver)

	srv, err := newServer(ctx, cfg, newRegistry())
	if err != nil {
		logger.Fatal("Critical: failed to start", "err", err)
	}
	defer srv.backend.Close()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	srv.start(workerCtx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Kanso tracker running", "addr", "http://localhost:"+cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Critical server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "err", err)
		os.Exit(1)
	}
	cancelWorkers()

	logger.Info("Server stopped gracefully.")
}
