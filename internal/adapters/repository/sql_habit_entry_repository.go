package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

var _ domain.HabitEntryRepository = (*SQLEntryRepository)(nil)

type SQLEntryRepository struct {
	db *sqlx.DB
}

func NewSQLEntryRepository(db *sqlx.DB) *SQLEntryRepository {
	return &SQLEntryRepository{db: db}
}

const entryColumns = `id, habit_id, date, completed, notes, created_at`

func (r *SQLEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	query := r.db.Rebind(`
		INSERT INTO entries (habit_id, date, completed, notes, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		entry.HabitID, entry.Date, entry.Completed, entry.Notes, entry.CreatedAt,
	).Scan(&id)
	if err != nil {
		return storageErr("insert entry", err)
	}

	entry.ID = id
	return nil
}

func (r *SQLEntryRepository) List(ctx context.Context) ([]*domain.HabitEntry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY id`)
}

func (r *SQLEntryRepository) ListByHabitID(ctx context.Context, habitID int64) ([]*domain.HabitEntry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM entries WHERE habit_id = ? ORDER BY id`, habitID)
}

func (r *SQLEntryRepository) ListByDate(ctx context.Context, date string) ([]*domain.HabitEntry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM entries WHERE date = ? ORDER BY id`, date)
}

func (r *SQLEntryRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.HabitEntry, error) {
	entries := []*domain.HabitEntry{}

	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), args...); err != nil {
		return nil, storageErr("list entries", err)
	}

	for _, e := range entries {
		e.CreatedAt = e.CreatedAt.UTC()
	}
	return entries, nil
}

func (r *SQLEntryRepository) Update(ctx context.Context, entry *domain.HabitEntry) error {
	query := r.db.Rebind(`
		UPDATE entries
		SET habit_id = ?, date = ?, completed = ?, notes = ?
		WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query,
		entry.HabitID, entry.Date, entry.Completed, entry.Notes, entry.ID)
	if err != nil {
		return storageErr("update entry", err)
	}

	return expectRow(res, domain.ErrEntryNotFound)
}

func (r *SQLEntryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM entries WHERE id = ?`), id)
	if err != nil {
		return storageErr("delete entry", err)
	}

	return expectRow(res, domain.ErrEntryNotFound)
}

func (r *SQLEntryRepository) DeleteByHabitID(ctx context.Context, habitID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM entries WHERE habit_id = ?`), habitID)
	if err != nil {
		return 0, storageErr("sweep entries", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("rows affected", err)
	}
	return n, nil
}
