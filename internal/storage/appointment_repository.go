package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookcore/internal/model"
	"bookcore/internal/outbox"
	"bookcore/libs/db"
)

// AppointmentRepository persists appointments and writes the matching
// lifecycle event to the outbox in the same transaction. The overlap
// exclusion constraints on the appointments table make Create/Reschedule the
// atomic arbiter for racing writers; a losing insert or update surfaces as
// the engine's conflict error.
type AppointmentRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewAppointmentRepository(pool *db.Pool, outboxRepo *outbox.Repository) *AppointmentRepository {
	return &AppointmentRepository{pool: pool, outbox: outboxRepo}
}

const appointmentColumns = `id::text, client_id, provider_id, service_id::text, date, start_minute, end_minute, status, created_at, updated_at`

func scanAppointment(row interface{ Scan(...any) error }) (model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(&a.ID, &a.ClientID, &a.ProviderID, &a.ServiceID, &a.Date,
		&a.StartMinute, &a.EndMinute, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Appointment{}, err
	}
	a.Date = model.NormalizeDate(a.Date)
	return a, nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (model.Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id))
	if err != nil {
		return model.Appointment{}, wrapNotFound(err, "appointment", id)
	}
	return a, nil
}

func (r *AppointmentRepository) FindActiveByProviderAndDate(ctx context.Context, providerID string, date time.Time) ([]model.Appointment, error) {
	return r.query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider_id = $1 AND date = $2 AND status IN ('pending', 'confirmed')
		ORDER BY start_minute ASC
	`, providerID, date)
}

func (r *AppointmentRepository) FindActiveByClientAndDate(ctx context.Context, clientID string, date time.Time) ([]model.Appointment, error) {
	return r.query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE client_id = $1 AND date = $2 AND status IN ('pending', 'confirmed')
		ORDER BY start_minute ASC
	`, clientID, date)
}

func (r *AppointmentRepository) ListByClient(ctx context.Context, clientID string) ([]model.Appointment, error) {
	return r.query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE client_id = $1
		ORDER BY date ASC, start_minute ASC
	`, clientID)
}

func (r *AppointmentRepository) ListByProvider(ctx context.Context, providerID string) ([]model.Appointment, error) {
	return r.query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider_id = $1
		ORDER BY date ASC, start_minute ASC
	`, providerID)
}

func (r *AppointmentRepository) query(ctx context.Context, sql string, args ...any) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.NewString()
	out, err := scanAppointment(tx.QueryRow(ctx, `
		INSERT INTO appointments (id, client_id, provider_id, service_id, date, start_minute, end_minute, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+appointmentColumns+`
	`, id, appt.ClientID, appt.ProviderID, appt.ServiceID, appt.Date, appt.StartMinute, appt.EndMinute, appt.Status))
	if err != nil {
		return model.Appointment{}, wrapConflict(err)
	}

	if err := r.insertEvent(ctx, tx, outbox.EventAppointmentRequested, out); err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepository) Reschedule(ctx context.Context, id string, date time.Time, startMinute, endMinute int) (model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out, err := scanAppointment(tx.QueryRow(ctx, `
		UPDATE appointments
		SET date = $2,
			start_minute = $3,
			end_minute = $4,
			status = 'pending',
			updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, date, startMinute, endMinute))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Appointment{}, wrapNotFound(err, "appointment", id)
		}
		return model.Appointment{}, wrapConflict(err)
	}

	if err := r.insertEvent(ctx, tx, outbox.EventAppointmentRescheduled, out); err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out, err := scanAppointment(tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
			updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, status))
	if err != nil {
		return model.Appointment{}, wrapNotFound(err, "appointment", id)
	}

	if err := r.insertEvent(ctx, tx, statusEventType(status), out); err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, err
	}
	return out, nil
}

func statusEventType(status model.Status) string {
	switch status {
	case model.StatusConfirmed:
		return outbox.EventAppointmentConfirmed
	case model.StatusRejected:
		return outbox.EventAppointmentRejected
	case model.StatusCancelled:
		return outbox.EventAppointmentCancelled
	case model.StatusCompleted:
		return outbox.EventAppointmentCompleted
	default:
		return outbox.EventAppointmentRequested
	}
}

func (r *AppointmentRepository) insertEvent(ctx context.Context, tx pgx.Tx, eventType string, appt model.Appointment) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"client_id":      appt.ClientID,
		"provider_id":    appt.ProviderID,
		"service_id":     appt.ServiceID,
		"date":           model.FormatDate(appt.Date),
		"start_time":     model.FormatClock(appt.StartMinute),
		"end_time":       model.FormatClock(appt.EndMinute),
		"status":         appt.Status,
	})
	if err != nil {
		return err
	}
	return r.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}
