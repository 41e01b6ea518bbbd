package engine

import (
	"context"
	"time"

	"bookcore/internal/availability"
	"bookcore/internal/model"
)

// GetDaySlots returns every bookable slot for a service on one calendar
// date, in window-then-time order, annotated with current booking status.
// An empty result (closed day, holiday, no windows) is a normal outcome.
//
// Each window is sliced at its own slot granularity, while a booking always
// consumes the service duration starting at the slot's start; a slot is
// therefore marked unavailable when that booking interval would overlap an
// existing pending/confirmed appointment. Overlapping windows are a provider
// configuration concern and are not de-duplicated here.
func (e *Engine) GetDaySlots(ctx context.Context, serviceID string, date time.Time) ([]model.Slot, error) {
	svc, err := e.services.Get(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	date = model.NormalizeDate(date)
	windows, err := e.windows.FindByServiceAndWeekday(ctx, serviceID, model.Weekday(date))
	if err != nil {
		return nil, err
	}

	var slots []model.Slot
	for _, w := range windows {
		if w.HasException(date) {
			continue
		}
		for _, iv := range availability.GenerateSlots(w.StartMinute, w.EndMinute, w.SlotMinutes) {
			slots = append(slots, model.Slot{StartMinute: iv.Start, EndMinute: iv.End, Available: true})
		}
	}
	if len(slots) == 0 {
		return slots, nil
	}

	booked, err := e.appointments.FindActiveByProviderAndDate(ctx, svc.ProviderID, date)
	if err != nil {
		return nil, err
	}
	busy := make([]availability.Interval, 0, len(booked))
	for _, a := range booked {
		busy = append(busy, availability.Interval{Start: a.StartMinute, End: a.EndMinute})
	}

	for i := range slots {
		candidate := availability.Interval{
			Start: slots[i].StartMinute,
			End:   slots[i].StartMinute + svc.DurationMins,
		}
		if availability.OverlapsAny(candidate, busy) {
			slots[i].Available = false
		}
	}
	return slots, nil
}

// withinWorkingHours reports whether [startMinute, endMinute) lies fully
// inside at least one window of the service that is active (not suspended by
// an exception date) on date.
func (e *Engine) withinWorkingHours(ctx context.Context, serviceID string, date time.Time, startMinute, endMinute int) (bool, error) {
	windows, err := e.windows.FindByServiceAndWeekday(ctx, serviceID, model.Weekday(date))
	if err != nil {
		return false, err
	}
	candidate := availability.Interval{Start: startMinute, End: endMinute}
	for _, w := range windows {
		if w.HasException(date) {
			continue
		}
		if (availability.Interval{Start: w.StartMinute, End: w.EndMinute}).Contains(candidate) {
			return true, nil
		}
	}
	return false, nil
}
