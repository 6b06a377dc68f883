package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

var _ domain.HabitRepository = (*SQLHabitRepository)(nil)

// SQLHabitRepository serves the habits collection on both sqlite and
// postgres. Queries use ? placeholders and are rebound per driver.
type SQLHabitRepository struct {
	db *sqlx.DB
}

func NewSQLHabitRepository(db *sqlx.DB) *SQLHabitRepository {
	return &SQLHabitRepository{db: db}
}

type habitRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Color       string    `db:"color"`
	CreatedAt   time.Time `db:"created_at"`
	TargetDays  string    `db:"target_days"`
	IsActive    bool      `db:"is_active"`
}

const habitColumns = `id, name, description, color, created_at, target_days, is_active`

func (row habitRow) toDomain() (*domain.Habit, error) {
	h := &domain.Habit{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Color:       row.Color,
		CreatedAt:   row.CreatedAt.UTC(),
		IsActive:    row.IsActive,
	}

	if row.TargetDays != "" {
		if err := json.Unmarshal([]byte(row.TargetDays), &h.TargetDays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal target days: %w", err)
		}
	}

	return h, nil
}

func (r *SQLHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	targetDays, err := json.Marshal(h.TargetDays)
	if err != nil {
		return fmt.Errorf("failed to marshal target days: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO habits (name, description, color, created_at, target_days, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err = r.db.QueryRowxContext(ctx, query,
		h.Name, h.Description, h.Color, h.CreatedAt, string(targetDays), h.IsActive,
	).Scan(&id)
	if err != nil {
		return storageErr("insert habit", err)
	}

	h.ID = id
	return nil
}

func (r *SQLHabitRepository) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	var row habitRow
	query := r.db.Rebind(`SELECT ` + habitColumns + ` FROM habits WHERE id = ?`)

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, storageErr("get habit", err)
	}

	return row.toDomain()
}

func (r *SQLHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	return r.list(ctx, `SELECT `+habitColumns+` FROM habits ORDER BY id`)
}

func (r *SQLHabitRepository) ListActive(ctx context.Context) ([]*domain.Habit, error) {
	return r.list(ctx, `SELECT `+habitColumns+` FROM habits WHERE is_active = ? ORDER BY id`, true)
}

func (r *SQLHabitRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Habit, error) {
	var rows []habitRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, storageErr("list habits", err)
	}

	habits := make([]*domain.Habit, 0, len(rows))
	for _, row := range rows {
		h, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}

func (r *SQLHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	targetDays, err := json.Marshal(h.TargetDays)
	if err != nil {
		return fmt.Errorf("failed to marshal target days: %w", err)
	}

	query := r.db.Rebind(`
		UPDATE habits
		SET name = ?, description = ?, color = ?, target_days = ?, is_active = ?
		WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query,
		h.Name, h.Description, h.Color, string(targetDays), h.IsActive, h.ID)
	if err != nil {
		return storageErr("update habit", err)
	}

	return expectRow(res, domain.ErrHabitNotFound)
}

func (r *SQLHabitRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM habits WHERE id = ?`), id)
	if err != nil {
		return storageErr("delete habit", err)
	}

	return expectRow(res, domain.ErrHabitNotFound)
}

func expectRow(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
