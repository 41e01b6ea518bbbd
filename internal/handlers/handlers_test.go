package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"bookcore/internal/engine"
	"bookcore/internal/model"
)

// Stub stores with just enough behavior to drive the HTTP layer: one active
// service, one Monday window, and an appointment map that rejects overlapping
// active bookings the way the real storage constraints do.

type stubStores struct {
	mu      sync.Mutex
	service model.Service
	window  model.TimeWindow
	appts   map[string]model.Appointment
}

func newStubStores() *stubStores {
	s := &stubStores{appts: map[string]model.Appointment{}}
	s.service = model.Service{
		ID:           uuid.NewString(),
		ProviderID:   "provider-1",
		Name:         "Haircut",
		DurationMins: 60,
		Price:        "30.00",
		Active:       true,
	}
	s.window = model.TimeWindow{
		ID:          uuid.NewString(),
		ServiceID:   s.service.ID,
		Weekday:     1,
		StartMinute: 540,
		EndMinute:   720,
		SlotMinutes: 60,
	}
	return s
}

func (s *stubStores) Get(_ context.Context, id string) (model.Service, error) {
	if id != s.service.ID || !s.service.Active {
		return model.Service{}, fmt.Errorf("service %q: %w", id, engine.ErrNotFound)
	}
	return s.service, nil
}

func (s *stubStores) Create(_ context.Context, svc model.Service) (model.Service, error) {
	svc.ID = uuid.NewString()
	return svc, nil
}

func (s *stubStores) ListByProvider(_ context.Context, providerID string) ([]model.Service, error) {
	if providerID == s.service.ProviderID {
		return []model.Service{s.service}, nil
	}
	return nil, nil
}

func (s *stubStores) UpdateMetadata(_ context.Context, id, name, description string) (model.Service, error) {
	if id != s.service.ID {
		return model.Service{}, fmt.Errorf("service %q: %w", id, engine.ErrNotFound)
	}
	s.service.Name = name
	s.service.Description = description
	return s.service, nil
}

func (s *stubStores) Deactivate(_ context.Context, id string) error {
	if id != s.service.ID {
		return fmt.Errorf("service %q: %w", id, engine.ErrNotFound)
	}
	s.service.Active = false
	return nil
}

type stubWindows struct{ s *stubStores }

func (w stubWindows) Get(_ context.Context, id string) (model.TimeWindow, error) {
	if id != w.s.window.ID {
		return model.TimeWindow{}, fmt.Errorf("window %q: %w", id, engine.ErrNotFound)
	}
	return w.s.window, nil
}

func (w stubWindows) FindByServiceAndWeekday(_ context.Context, serviceID string, weekday int) ([]model.TimeWindow, error) {
	if serviceID == w.s.window.ServiceID && weekday == w.s.window.Weekday {
		return []model.TimeWindow{w.s.window}, nil
	}
	return nil, nil
}

func (w stubWindows) ListByService(_ context.Context, serviceID string) ([]model.TimeWindow, error) {
	if serviceID == w.s.window.ServiceID {
		return []model.TimeWindow{w.s.window}, nil
	}
	return nil, nil
}

func (w stubWindows) Create(_ context.Context, win model.TimeWindow) (model.TimeWindow, error) {
	win.ID = uuid.NewString()
	return win, nil
}

func (w stubWindows) Delete(_ context.Context, id string) error {
	if id != w.s.window.ID {
		return fmt.Errorf("window %q: %w", id, engine.ErrNotFound)
	}
	return nil
}

func (w stubWindows) AddException(_ context.Context, windowID string, date time.Time) error {
	if windowID != w.s.window.ID {
		return fmt.Errorf("window %q: %w", windowID, engine.ErrNotFound)
	}
	if !w.s.window.HasException(date) {
		w.s.window.ExceptionDates = append(w.s.window.ExceptionDates, date)
	}
	return nil
}

func (w stubWindows) RemoveException(_ context.Context, windowID string, date time.Time) error {
	if windowID != w.s.window.ID {
		return fmt.Errorf("window %q: %w", windowID, engine.ErrNotFound)
	}
	return nil
}

type stubAppointments struct{ s *stubStores }

func (a stubAppointments) Get(_ context.Context, id string) (model.Appointment, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	appt, ok := a.s.appts[id]
	if !ok {
		return model.Appointment{}, fmt.Errorf("appointment %q: %w", id, engine.ErrNotFound)
	}
	return appt, nil
}

func (a stubAppointments) findActive(match func(model.Appointment) bool) []model.Appointment {
	var out []model.Appointment
	for _, appt := range a.s.appts {
		if appt.Status.Active() && match(appt) {
			out = append(out, appt)
		}
	}
	return out
}

func (a stubAppointments) FindActiveByProviderAndDate(_ context.Context, providerID string, date time.Time) ([]model.Appointment, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.findActive(func(x model.Appointment) bool {
		return x.ProviderID == providerID && model.SameDate(x.Date, date)
	}), nil
}

func (a stubAppointments) FindActiveByClientAndDate(_ context.Context, clientID string, date time.Time) ([]model.Appointment, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.findActive(func(x model.Appointment) bool {
		return x.ClientID == clientID && model.SameDate(x.Date, date)
	}), nil
}

func (a stubAppointments) ListByClient(_ context.Context, clientID string) ([]model.Appointment, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.findActive(func(x model.Appointment) bool { return x.ClientID == clientID }), nil
}

func (a stubAppointments) ListByProvider(_ context.Context, providerID string) ([]model.Appointment, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.findActive(func(x model.Appointment) bool { return x.ProviderID == providerID }), nil
}

func (a stubAppointments) Create(_ context.Context, appt model.Appointment) (model.Appointment, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, existing := range a.s.appts {
		if !existing.Status.Active() || !model.SameDate(existing.Date, appt.Date) {
			continue
		}
		if existing.ProviderID != appt.ProviderID && existing.ClientID != appt.ClientID {
			continue
		}
		if appt.StartMinute < existing.EndMinute && existing.StartMinute < appt.EndMinute {
			return model.Appointment{}, fmt.Errorf("overlapping appointment: %w", engine.ErrConflict)
		}
	}
	appt.ID = uuid.NewString()
	a.s.appts[appt.ID] = appt
	return appt, nil
}

func (a stubAppointments) Reschedule(_ context.Context, id string, date time.Time, startMinute, endMinute int) (model.Appointment, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	appt, ok := a.s.appts[id]
	if !ok {
		return model.Appointment{}, fmt.Errorf("appointment %q: %w", id, engine.ErrNotFound)
	}
	appt.Date = date
	appt.StartMinute = startMinute
	appt.EndMinute = endMinute
	appt.Status = model.StatusPending
	a.s.appts[id] = appt
	return appt, nil
}

func (a stubAppointments) UpdateStatus(_ context.Context, id string, status model.Status) (model.Appointment, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	appt, ok := a.s.appts[id]
	if !ok {
		return model.Appointment{}, fmt.Errorf("appointment %q: %w", id, engine.ErrNotFound)
	}
	appt.Status = status
	a.s.appts[id] = appt
	return appt, nil
}

func newTestHandler() (*Handler, *stubStores) {
	stores := newStubStores()
	eng := engine.New(stores, stubWindows{stores}, stubAppointments{stores})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(eng, logger), stores
}

func TestSlotsEndpoint(t *testing.T) {
	h, stores := newTestHandler()

	// 2026-03-02 is a Monday.
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/public/slots?service_id="+stores.service.ID+"&date=2026-03-02", nil)
	rr := httptest.NewRecorder()
	h.Slots(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var slots []slotItem
	if err := json.Unmarshal(rr.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if slots[0].StartTime != "09:00" || !slots[0].Available {
		t.Fatalf("unexpected first slot: %+v", slots[0])
	}
}

func TestSlotsRequiresParams(t *testing.T) {
	h, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots", nil)
	rr := httptest.NewRecorder()
	h.Slots(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func bookRequest(serviceID, clientID, date, start string) *http.Request {
	body := fmt.Sprintf(`{"service_id":%q,"date":%q,"start_time":%q}`, serviceID, date, start)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/book", strings.NewReader(body))
	if clientID != "" {
		req.Header.Set("X-Client-Id", clientID)
	}
	return req
}

func TestBookEndpoint(t *testing.T) {
	h, stores := newTestHandler()

	rr := httptest.NewRecorder()
	h.Book(rr, bookRequest(stores.service.ID, "client-1", "2026-03-02", "09:00"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var appt appointmentItem
	if err := json.Unmarshal(rr.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if appt.Status != "pending" || appt.EndTime != "10:00" {
		t.Fatalf("unexpected appointment: %+v", appt)
	}
}

func TestBookRequiresClientHeader(t *testing.T) {
	h, stores := newTestHandler()
	rr := httptest.NewRecorder()
	h.Book(rr, bookRequest(stores.service.ID, "", "2026-03-02", "09:00"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestBookConflictMapsTo409(t *testing.T) {
	h, stores := newTestHandler()

	rr := httptest.NewRecorder()
	h.Book(rr, bookRequest(stores.service.ID, "client-1", "2026-03-02", "09:00"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed booking failed: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Book(rr, bookRequest(stores.service.ID, "client-2", "2026-03-02", "09:00"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestBookOutsideHoursMapsTo422(t *testing.T) {
	h, stores := newTestHandler()
	rr := httptest.NewRecorder()
	h.Book(rr, bookRequest(stores.service.ID, "client-1", "2026-03-02", "13:00"))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateStatusForbiddenForStranger(t *testing.T) {
	h, stores := newTestHandler()

	rr := httptest.NewRecorder()
	h.Book(rr, bookRequest(stores.service.ID, "client-1", "2026-03-02", "09:00"))
	var appt appointmentItem
	if err := json.Unmarshal(rr.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	body := fmt.Sprintf(`{"appointment_id":%q,"status":"confirmed"}`, appt.AppointmentID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/status", strings.NewReader(body))
	req.Header.Set("X-Provider-Id", "someone-else")
	rr = httptest.NewRecorder()
	h.UpdateStatus(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCancelUnknownAppointmentMapsTo404(t *testing.T) {
	h, _ := newTestHandler()
	body := `{"appointment_id":"missing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/cancel", strings.NewReader(body))
	req.Header.Set("X-Client-Id", "client-1")
	rr := httptest.NewRecorder()
	h.Cancel(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestWindowsEndpointCreateAndList(t *testing.T) {
	h, stores := newTestHandler()

	body := fmt.Sprintf(`{"service_id":%q,"weekday":2,"start_time":"10:00","end_time":"14:00","slot_minutes":60}`, stores.service.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/windows", strings.NewReader(body))
	req.Header.Set("X-Provider-Id", stores.service.ProviderID)
	rr := httptest.NewRecorder()
	h.Windows(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/windows?service_id="+stores.service.ID, nil)
	rr = httptest.NewRecorder()
	h.Windows(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var windows []windowItem
	if err := json.Unmarshal(rr.Body.Bytes(), &windows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(windows) != 1 || windows[0].StartTime != "09:00" {
		t.Fatalf("unexpected windows: %+v", windows)
	}
}
