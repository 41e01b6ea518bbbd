package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookcore/internal/model"
	"bookcore/libs/db"
)

type WindowRepository struct {
	pool *db.Pool
}

func NewWindowRepository(pool *db.Pool) *WindowRepository {
	return &WindowRepository{pool: pool}
}

func (r *WindowRepository) Get(ctx context.Context, id string) (model.TimeWindow, error) {
	var w model.TimeWindow
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, service_id::text, weekday, start_minute, end_minute, slot_minutes, created_at
		FROM time_windows
		WHERE id = $1
	`, id).Scan(&w.ID, &w.ServiceID, &w.Weekday, &w.StartMinute, &w.EndMinute, &w.SlotMinutes, &w.CreatedAt)
	if err != nil {
		return model.TimeWindow{}, wrapNotFound(err, "window", id)
	}
	if err := r.loadExceptions(ctx, &w); err != nil {
		return model.TimeWindow{}, err
	}
	return w, nil
}

func (r *WindowRepository) FindByServiceAndWeekday(ctx context.Context, serviceID string, weekday int) ([]model.TimeWindow, error) {
	return r.query(ctx, `
		SELECT id::text, service_id::text, weekday, start_minute, end_minute, slot_minutes, created_at
		FROM time_windows
		WHERE service_id = $1 AND weekday = $2
		ORDER BY start_minute ASC
	`, serviceID, weekday)
}

func (r *WindowRepository) ListByService(ctx context.Context, serviceID string) ([]model.TimeWindow, error) {
	return r.query(ctx, `
		SELECT id::text, service_id::text, weekday, start_minute, end_minute, slot_minutes, created_at
		FROM time_windows
		WHERE service_id = $1
		ORDER BY weekday ASC, start_minute ASC
	`, serviceID)
}

func (r *WindowRepository) query(ctx context.Context, sql string, args ...any) ([]model.TimeWindow, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeWindow
	for rows.Next() {
		var w model.TimeWindow
		if err := rows.Scan(&w.ID, &w.ServiceID, &w.Weekday, &w.StartMinute, &w.EndMinute, &w.SlotMinutes, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	for i := range out {
		if err := r.loadExceptions(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *WindowRepository) loadExceptions(ctx context.Context, w *model.TimeWindow) error {
	rows, err := r.pool.Query(ctx, `
		SELECT date
		FROM time_window_exceptions
		WHERE window_id = $1
		ORDER BY date ASC
	`, w.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return err
		}
		w.ExceptionDates = append(w.ExceptionDates, model.NormalizeDate(d))
	}
	return rows.Err()
}

func (r *WindowRepository) Create(ctx context.Context, w model.TimeWindow) (model.TimeWindow, error) {
	id := uuid.NewString()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO time_windows (id, service_id, weekday, start_minute, end_minute, slot_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at
	`, id, w.ServiceID, w.Weekday, w.StartMinute, w.EndMinute, w.SlotMinutes).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return model.TimeWindow{}, err
	}
	return w, nil
}

func (r *WindowRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM time_windows
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return wrapNotFound(pgx.ErrNoRows, "window", id)
	}
	return nil
}

func (r *WindowRepository) AddException(ctx context.Context, windowID string, date time.Time) error {
	// Idempotent: re-adding a present date is a no-op.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO time_window_exceptions (window_id, date)
		VALUES ($1, $2)
		ON CONFLICT (window_id, date) DO NOTHING
	`, windowID, date)
	return err
}

func (r *WindowRepository) RemoveException(ctx context.Context, windowID string, date time.Time) error {
	// Removing an absent date is likewise a no-op.
	_, err := r.pool.Exec(ctx, `
		DELETE FROM time_window_exceptions
		WHERE window_id = $1 AND date = $2
	`, windowID, date)
	return err
}
