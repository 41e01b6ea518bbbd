package engine

import (
	"context"
	"fmt"
	"time"

	"bookcore/internal/model"
)

// Book creates a pending appointment for clientID on the given service, date
// and wall-clock start. The booked interval always consumes the service
// duration; it must lie fully within an active window for that weekday and
// must not overlap an existing pending/confirmed appointment of either the
// provider or the client.
//
// The conflict checks here give precise errors; the store's Create is the
// atomic arbiter when two requests race for the same interval and reports
// the loser with the same ErrConflict.
func (e *Engine) Book(ctx context.Context, clientID, serviceID string, date time.Time, startMinute int) (model.Appointment, error) {
	svc, err := e.services.Get(ctx, serviceID)
	if err != nil {
		return model.Appointment{}, err
	}

	date = model.NormalizeDate(date)
	endMinute := startMinute + svc.DurationMins
	if startMinute < 0 || endMinute > model.MinutesPerDay {
		return model.Appointment{}, fmt.Errorf("appointment time must fall within one day: %w", ErrValidation)
	}

	ok, err := e.withinWorkingHours(ctx, serviceID, date, startMinute, endMinute)
	if err != nil {
		return model.Appointment{}, err
	}
	if !ok {
		return model.Appointment{}, fmt.Errorf("outside working hours: %w", ErrValidation)
	}

	if conflict, err := e.HasConflict(ctx, svc.ProviderID, RoleProvider, date, startMinute, endMinute, ""); err != nil {
		return model.Appointment{}, err
	} else if conflict {
		return model.Appointment{}, fmt.Errorf("slot already booked: %w", ErrConflict)
	}
	if conflict, err := e.HasConflict(ctx, clientID, RoleClient, date, startMinute, endMinute, ""); err != nil {
		return model.Appointment{}, err
	} else if conflict {
		return model.Appointment{}, fmt.Errorf("client already booked: %w", ErrConflict)
	}

	return e.appointments.Create(ctx, model.Appointment{
		ClientID:    clientID,
		ProviderID:  svc.ProviderID,
		ServiceID:   serviceID,
		Date:        date,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		Status:      model.StatusPending,
	})
}

// allowed provider-driven transitions; everything else is rejected.
var providerTransitions = map[model.Status]map[model.Status]bool{
	model.StatusPending:   {model.StatusConfirmed: true, model.StatusRejected: true},
	model.StatusConfirmed: {model.StatusCompleted: true},
}

// UpdateStatus applies a provider decision: confirm or reject a pending
// appointment, or mark a confirmed one completed. Only the owning provider
// may call it; cancellation goes through Cancel.
func (e *Engine) UpdateStatus(ctx context.Context, actorID, appointmentID string, newStatus model.Status) (model.Appointment, error) {
	if !newStatus.Known() {
		return model.Appointment{}, fmt.Errorf("unknown status %q: %w", newStatus, ErrValidation)
	}

	appt, err := e.appointments.Get(ctx, appointmentID)
	if err != nil {
		return model.Appointment{}, err
	}
	if actorID != appt.ProviderID {
		return model.Appointment{}, fmt.Errorf("only the appointment's provider may change its status: %w", ErrUnauthorized)
	}
	if !providerTransitions[appt.Status][newStatus] {
		return model.Appointment{}, fmt.Errorf("cannot move appointment from %s to %s: %w",
			appt.Status, newStatus, ErrInvalidTransition)
	}

	return e.appointments.UpdateStatus(ctx, appointmentID, newStatus)
}

// Cancel moves a pending or confirmed appointment to cancelled. Either party
// may cancel. Cancelling an already-cancelled appointment is an idempotent
// success returning it unchanged; cancelling a rejected or completed one
// fails.
func (e *Engine) Cancel(ctx context.Context, actorID, appointmentID string) (model.Appointment, error) {
	appt, err := e.appointments.Get(ctx, appointmentID)
	if err != nil {
		return model.Appointment{}, err
	}
	if actorID != appt.ClientID && actorID != appt.ProviderID {
		return model.Appointment{}, fmt.Errorf("actor is neither the client nor the provider: %w", ErrUnauthorized)
	}
	if appt.Status == model.StatusCancelled {
		return appt, nil
	}
	if appt.Status.Terminal() {
		return model.Appointment{}, fmt.Errorf("cannot cancel a %s appointment: %w", appt.Status, ErrInvalidTransition)
	}

	return e.appointments.UpdateStatus(ctx, appointmentID, model.StatusCancelled)
}

// Reschedule moves the appointment to a new interval and resets it to
// pending for provider re-approval. Only the owning client may reschedule,
// and only from pending or confirmed. The appointment's own current slot is
// excluded from its conflict check, so rescheduling onto the same interval
// succeeds.
func (e *Engine) Reschedule(ctx context.Context, clientID, appointmentID string, newDate time.Time, newStartMinute, newEndMinute int) (model.Appointment, error) {
	appt, err := e.appointments.Get(ctx, appointmentID)
	if err != nil {
		return model.Appointment{}, err
	}
	if clientID != appt.ClientID {
		return model.Appointment{}, fmt.Errorf("only the appointment's client may reschedule: %w", ErrUnauthorized)
	}
	if appt.Status.Terminal() {
		return model.Appointment{}, fmt.Errorf("cannot reschedule a %s appointment: %w", appt.Status, ErrInvalidTransition)
	}

	svc, err := e.services.Get(ctx, appt.ServiceID)
	if err != nil {
		return model.Appointment{}, err
	}
	newDate = model.NormalizeDate(newDate)
	if newStartMinute < 0 || newEndMinute > model.MinutesPerDay || newStartMinute >= newEndMinute {
		return model.Appointment{}, fmt.Errorf("malformed interval: %w", ErrValidation)
	}
	if newEndMinute-newStartMinute != svc.DurationMins {
		return model.Appointment{}, fmt.Errorf("interval length %d does not match service duration %d: %w",
			newEndMinute-newStartMinute, svc.DurationMins, ErrValidation)
	}

	ok, err := e.withinWorkingHours(ctx, appt.ServiceID, newDate, newStartMinute, newEndMinute)
	if err != nil {
		return model.Appointment{}, err
	}
	if !ok {
		return model.Appointment{}, fmt.Errorf("outside working hours: %w", ErrValidation)
	}

	if conflict, err := e.HasConflict(ctx, appt.ProviderID, RoleProvider, newDate, newStartMinute, newEndMinute, appt.ID); err != nil {
		return model.Appointment{}, err
	} else if conflict {
		return model.Appointment{}, fmt.Errorf("slot already booked: %w", ErrConflict)
	}
	if conflict, err := e.HasConflict(ctx, appt.ClientID, RoleClient, newDate, newStartMinute, newEndMinute, appt.ID); err != nil {
		return model.Appointment{}, err
	} else if conflict {
		return model.Appointment{}, fmt.Errorf("client already booked: %w", ErrConflict)
	}

	return e.appointments.Reschedule(ctx, appointmentID, newDate, newStartMinute, newEndMinute)
}

func (e *Engine) GetAppointment(ctx context.Context, id string) (model.Appointment, error) {
	return e.appointments.Get(ctx, id)
}

func (e *Engine) ListClientAppointments(ctx context.Context, clientID string) ([]model.Appointment, error) {
	return e.appointments.ListByClient(ctx, clientID)
}

func (e *Engine) ListProviderAppointments(ctx context.Context, providerID string) ([]model.Appointment, error) {
	return e.appointments.ListByProvider(ctx, providerID)
}
