package engine

import (
	"context"
	"time"

	"bookcore/internal/model"
)

// The stores are the engine's only collaborators. Implementations translate
// their backend's missing-row condition to ErrNotFound and, for appointment
// writes, a storage-level overlap violation to ErrConflict.

type ServiceStore interface {
	Get(ctx context.Context, id string) (model.Service, error)
	Create(ctx context.Context, svc model.Service) (model.Service, error)
	ListByProvider(ctx context.Context, providerID string) ([]model.Service, error)
	UpdateMetadata(ctx context.Context, id, name, description string) (model.Service, error)
	Deactivate(ctx context.Context, id string) error
}

type WindowStore interface {
	Get(ctx context.Context, id string) (model.TimeWindow, error)
	FindByServiceAndWeekday(ctx context.Context, serviceID string, weekday int) ([]model.TimeWindow, error)
	ListByService(ctx context.Context, serviceID string) ([]model.TimeWindow, error)
	Create(ctx context.Context, w model.TimeWindow) (model.TimeWindow, error)
	Delete(ctx context.Context, id string) error
	// AddException and RemoveException are idempotent: adding a present date
	// or removing an absent one is a no-op.
	AddException(ctx context.Context, windowID string, date time.Time) error
	RemoveException(ctx context.Context, windowID string, date time.Time) error
}

type AppointmentStore interface {
	Get(ctx context.Context, id string) (model.Appointment, error)
	FindActiveByProviderAndDate(ctx context.Context, providerID string, date time.Time) ([]model.Appointment, error)
	FindActiveByClientAndDate(ctx context.Context, clientID string, date time.Time) ([]model.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]model.Appointment, error)
	ListByProvider(ctx context.Context, providerID string) ([]model.Appointment, error)
	// Create persists a new pending appointment. It must be atomic with
	// respect to concurrent writers for the same provider or client: a lost
	// check-then-create race surfaces as ErrConflict.
	Create(ctx context.Context, appt model.Appointment) (model.Appointment, error)
	// Reschedule overwrites date/start/end and resets status to pending,
	// under the same atomicity contract as Create (the appointment's own row
	// never conflicts with itself).
	Reschedule(ctx context.Context, id string, date time.Time, startMinute, endMinute int) (model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) (model.Appointment, error)
}
