package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/comitanigiacomo/kanso-tracker/internal/app"
	"github.com/comitanigiacomo/kanso-tracker/internal/cli"
	"github.com/comitanigiacomo/kanso-tracker/internal/config"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

var CLI struct {
	DB string `help:"SQLite database path (overrides DB_PATH)." type:"path"`

	Add     cli.AddCmd     `cmd:"" help:"Add a new habit."`
	List    cli.ListCmd    `cmd:"" help:"List habits with streaks and the last seven days." default:"1"`
	Toggle  cli.ToggleCmd  `cmd:"" help:"Mark or unmark a habit for a day."`
	Delete  cli.DeleteCmd  `cmd:"" help:"Delete a habit and its history."`
	Archive cli.ArchiveCmd `cmd:"" help:"Archive a habit."`
	Restore cli.RestoreCmd `cmd:"" help:"Restore an archived habit."`
	Today   cli.TodayCmd   `cmd:"" help:"Show today's progress."`
	Stats   cli.StatsCmd   `cmd:"" help:"Show completion analytics."`

	Passphrase cli.PassphraseCmd `cmd:"" help:"Print the hash for ACCESS_PASSPHRASE_HASH."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitctl"),
		kong.Description("Track daily habits from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	if ctx.Selected() != nil && ctx.Selected().Name == "passphrase" {
		if err := ctx.Run(&cli.Context{In: os.Stdin, Out: os.Stdout}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.DB != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = CLI.DB
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.DataDir, Quiet: true}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	backend, err := app.Open(context.Background(), cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Tracker: backend.Tracker,
		Stats:   services.NewStatsService(backend.Tracker),
		Now:     func() time.Time { return time.Now().In(cfg.Location) },
		In:      os.Stdin,
		Out:     os.Stdout,
	}

	err = ctx.Run(appCtx)
	backend.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
