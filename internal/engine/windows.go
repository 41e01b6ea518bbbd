package engine

import (
	"context"
	"fmt"
	"time"

	"bookcore/internal/model"
)

// AddWindow publishes a recurring weekly availability window for a service.
// Windows for the same service and weekday may coexist without restriction;
// split shifts such as 09:00-12:00 and 14:00-18:00 are expected.
func (e *Engine) AddWindow(ctx context.Context, serviceID string, weekday, startMinute, endMinute, slotMinutes int) (model.TimeWindow, error) {
	if weekday < 0 || weekday > 6 {
		return model.TimeWindow{}, fmt.Errorf("weekday %d out of range 0-6: %w", weekday, ErrValidation)
	}
	if startMinute < 0 || endMinute > model.MinutesPerDay {
		return model.TimeWindow{}, fmt.Errorf("window times must fall within one day: %w", ErrValidation)
	}
	if startMinute >= endMinute {
		return model.TimeWindow{}, fmt.Errorf("window start %s is not before end %s: %w",
			model.FormatClock(startMinute), model.FormatClock(endMinute), ErrValidation)
	}

	svc, err := e.services.Get(ctx, serviceID)
	if err != nil {
		return model.TimeWindow{}, err
	}
	if slotMinutes < svc.DurationMins {
		return model.TimeWindow{}, fmt.Errorf("slot duration %d shorter than service duration %d: %w",
			slotMinutes, svc.DurationMins, ErrValidation)
	}

	return e.windows.Create(ctx, model.TimeWindow{
		ServiceID:   serviceID,
		Weekday:     weekday,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		SlotMinutes: slotMinutes,
	})
}

// AddExceptionDate suspends the window for one calendar date. The date's
// weekday must match the window's; adding a date that is already present is
// an idempotent no-op.
func (e *Engine) AddExceptionDate(ctx context.Context, windowID string, date time.Time) error {
	w, err := e.windows.Get(ctx, windowID)
	if err != nil {
		return err
	}
	date = model.NormalizeDate(date)
	if model.Weekday(date) != w.Weekday {
		return fmt.Errorf("exception date %s falls on weekday %d, window repeats on weekday %d: %w",
			model.FormatDate(date), model.Weekday(date), w.Weekday, ErrValidation)
	}
	return e.windows.AddException(ctx, windowID, date)
}

// RemoveExceptionDate reinstates the window for date. Removing a date that
// was never set is a no-op.
func (e *Engine) RemoveExceptionDate(ctx context.Context, windowID string, date time.Time) error {
	if _, err := e.windows.Get(ctx, windowID); err != nil {
		return err
	}
	return e.windows.RemoveException(ctx, windowID, model.NormalizeDate(date))
}

func (e *Engine) RemoveWindow(ctx context.Context, windowID string) error {
	if _, err := e.windows.Get(ctx, windowID); err != nil {
		return err
	}
	return e.windows.Delete(ctx, windowID)
}

func (e *Engine) ListWindows(ctx context.Context, serviceID string) ([]model.TimeWindow, error) {
	if _, err := e.services.Get(ctx, serviceID); err != nil {
		return nil, err
	}
	return e.windows.ListByService(ctx, serviceID)
}
