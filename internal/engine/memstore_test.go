package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookcore/internal/availability"
	"bookcore/internal/model"
)

// In-memory stores backing the engine tests. memAppointments enforces the
// same non-terminal overlap exclusion the Postgres constraints provide, so
// the atomicity contract of Create/Reschedule is exercised too.

type memServices struct {
	mu   sync.Mutex
	byID map[string]model.Service
}

func newMemServices() *memServices {
	return &memServices{byID: map[string]model.Service{}}
}

func (s *memServices) Get(_ context.Context, id string) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.byID[id]
	if !ok || !svc.Active {
		return model.Service{}, fmt.Errorf("service %q: %w", id, ErrNotFound)
	}
	return svc, nil
}

func (s *memServices) Create(_ context.Context, svc model.Service) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ID = uuid.NewString()
	svc.CreatedAt = time.Now().UTC()
	s.byID[svc.ID] = svc
	return svc, nil
}

func (s *memServices) ListByProvider(_ context.Context, providerID string) ([]model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Service
	for _, svc := range s.byID {
		if svc.ProviderID == providerID && svc.Active {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (s *memServices) UpdateMetadata(_ context.Context, id, name, description string) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.byID[id]
	if !ok {
		return model.Service{}, fmt.Errorf("service %q: %w", id, ErrNotFound)
	}
	svc.Name = name
	svc.Description = description
	s.byID[id] = svc
	return svc, nil
}

func (s *memServices) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("service %q: %w", id, ErrNotFound)
	}
	svc.Active = false
	s.byID[id] = svc
	return nil
}

type memWindows struct {
	mu   sync.Mutex
	byID map[string]model.TimeWindow
}

func newMemWindows() *memWindows {
	return &memWindows{byID: map[string]model.TimeWindow{}}
}

func (s *memWindows) Get(_ context.Context, id string) (model.TimeWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.byID[id]
	if !ok {
		return model.TimeWindow{}, fmt.Errorf("window %q: %w", id, ErrNotFound)
	}
	return w, nil
}

func (s *memWindows) FindByServiceAndWeekday(_ context.Context, serviceID string, weekday int) ([]model.TimeWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TimeWindow
	for _, w := range s.byID {
		if w.ServiceID == serviceID && w.Weekday == weekday {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out, nil
}

func (s *memWindows) ListByService(_ context.Context, serviceID string) ([]model.TimeWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TimeWindow
	for _, w := range s.byID {
		if w.ServiceID == serviceID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday != out[j].Weekday {
			return out[i].Weekday < out[j].Weekday
		}
		return out[i].StartMinute < out[j].StartMinute
	})
	return out, nil
}

func (s *memWindows) Create(_ context.Context, w model.TimeWindow) (model.TimeWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = uuid.NewString()
	w.CreatedAt = time.Now().UTC()
	s.byID[w.ID] = w
	return w, nil
}

func (s *memWindows) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("window %q: %w", id, ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

func (s *memWindows) AddException(_ context.Context, windowID string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.byID[windowID]
	if !ok {
		return fmt.Errorf("window %q: %w", windowID, ErrNotFound)
	}
	if w.HasException(date) {
		return nil
	}
	w.ExceptionDates = append(w.ExceptionDates, date)
	s.byID[windowID] = w
	return nil
}

func (s *memWindows) RemoveException(_ context.Context, windowID string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.byID[windowID]
	if !ok {
		return fmt.Errorf("window %q: %w", windowID, ErrNotFound)
	}
	var kept []time.Time
	for _, d := range w.ExceptionDates {
		if !model.SameDate(d, date) {
			kept = append(kept, d)
		}
	}
	w.ExceptionDates = kept
	s.byID[windowID] = w
	return nil
}

type memAppointments struct {
	mu   sync.Mutex
	byID map[string]model.Appointment
}

func newMemAppointments() *memAppointments {
	return &memAppointments{byID: map[string]model.Appointment{}}
}

func (s *memAppointments) Get(_ context.Context, id string) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return model.Appointment{}, fmt.Errorf("appointment %q: %w", id, ErrNotFound)
	}
	return a, nil
}

func (s *memAppointments) findActive(match func(model.Appointment) bool) []model.Appointment {
	var out []model.Appointment
	for _, a := range s.byID {
		if a.Status.Active() && match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out
}

func (s *memAppointments) FindActiveByProviderAndDate(_ context.Context, providerID string, date time.Time) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findActive(func(a model.Appointment) bool {
		return a.ProviderID == providerID && model.SameDate(a.Date, date)
	}), nil
}

func (s *memAppointments) FindActiveByClientAndDate(_ context.Context, clientID string, date time.Time) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findActive(func(a model.Appointment) bool {
		return a.ClientID == clientID && model.SameDate(a.Date, date)
	}), nil
}

func (s *memAppointments) list(match func(model.Appointment) bool) []model.Appointment {
	var out []model.Appointment
	for _, a := range s.byID {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartMinute < out[j].StartMinute
	})
	return out
}

func (s *memAppointments) ListByClient(_ context.Context, clientID string) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(func(a model.Appointment) bool { return a.ClientID == clientID }), nil
}

func (s *memAppointments) ListByProvider(_ context.Context, providerID string) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(func(a model.Appointment) bool { return a.ProviderID == providerID }), nil
}

func (s *memAppointments) overlapsActiveLocked(a model.Appointment, excludeID string) bool {
	candidate := availability.Interval{Start: a.StartMinute, End: a.EndMinute}
	for _, b := range s.byID {
		if b.ID == excludeID || !b.Status.Active() || !model.SameDate(a.Date, b.Date) {
			continue
		}
		if b.ProviderID != a.ProviderID && b.ClientID != a.ClientID {
			continue
		}
		if candidate.Overlaps(availability.Interval{Start: b.StartMinute, End: b.EndMinute}) {
			return true
		}
	}
	return false
}

func (s *memAppointments) Create(_ context.Context, appt model.Appointment) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlapsActiveLocked(appt, "") {
		return model.Appointment{}, fmt.Errorf("overlapping appointment: %w", ErrConflict)
	}
	appt.ID = uuid.NewString()
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	s.byID[appt.ID] = appt
	return appt, nil
}

func (s *memAppointments) Reschedule(_ context.Context, id string, date time.Time, startMinute, endMinute int) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return model.Appointment{}, fmt.Errorf("appointment %q: %w", id, ErrNotFound)
	}
	moved := a
	moved.Date = date
	moved.StartMinute = startMinute
	moved.EndMinute = endMinute
	if s.overlapsActiveLocked(moved, id) {
		return model.Appointment{}, fmt.Errorf("overlapping appointment: %w", ErrConflict)
	}
	moved.Status = model.StatusPending
	moved.UpdatedAt = time.Now().UTC()
	s.byID[id] = moved
	return moved, nil
}

func (s *memAppointments) UpdateStatus(_ context.Context, id string, status model.Status) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return model.Appointment{}, fmt.Errorf("appointment %q: %w", id, ErrNotFound)
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	s.byID[id] = a
	return a, nil
}

// fixture wires an engine over fresh in-memory stores with one provider,
// one 60-minute service and a Monday 09:00-12:00 window (60-minute slots).
type fixture struct {
	eng      *Engine
	appts    *memAppointments
	provider string
	service  model.Service
	window   model.TimeWindow
	monday   time.Time
}

func newFixture(t interface {
	Helper()
	Fatalf(string, ...any)
}) *fixture {
	t.Helper()
	ctx := context.Background()

	services := newMemServices()
	windows := newMemWindows()
	appts := newMemAppointments()
	eng := New(services, windows, appts)

	svc, err := eng.CreateService(ctx, "provider-1", "Dental checkup", "", 60, "45.00")
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	// 2026-03-02 is a Monday.
	monday, err := model.ParseDate("2026-03-02")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	w, err := eng.AddWindow(ctx, svc.ID, 1, 540, 720, 60)
	if err != nil {
		t.Fatalf("add window: %v", err)
	}

	return &fixture{
		eng:      eng,
		appts:    appts,
		provider: "provider-1",
		service:  svc,
		window:   w,
		monday:   monday,
	}
}
