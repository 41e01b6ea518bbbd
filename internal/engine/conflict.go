package engine

import (
	"context"
	"time"

	"bookcore/internal/availability"
	"bookcore/internal/model"
)

// Role identifies which side of an appointment a party is on for conflict
// checks.
type Role string

const (
	RoleProvider Role = "provider"
	RoleClient   Role = "client"
)

// HasConflict reports whether an existing pending/confirmed appointment for
// the party on date overlaps the half-open candidate interval. excludeID, if
// non-empty, names an appointment to ignore (the one being rescheduled).
func (e *Engine) HasConflict(ctx context.Context, partyID string, role Role, date time.Time, startMinute, endMinute int, excludeID string) (bool, error) {
	date = model.NormalizeDate(date)

	var (
		existing []model.Appointment
		err      error
	)
	switch role {
	case RoleProvider:
		existing, err = e.appointments.FindActiveByProviderAndDate(ctx, partyID, date)
	default:
		existing, err = e.appointments.FindActiveByClientAndDate(ctx, partyID, date)
	}
	if err != nil {
		return false, err
	}

	candidate := availability.Interval{Start: startMinute, End: endMinute}
	for _, a := range existing {
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if candidate.Overlaps(availability.Interval{Start: a.StartMinute, End: a.EndMinute}) {
			return true, nil
		}
	}
	return false, nil
}
