package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"bookcore/internal/model"
)

type windowItem struct {
	WindowID       string   `json:"window_id"`
	ServiceID      string   `json:"service_id"`
	Weekday        int      `json:"weekday"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	SlotMins       int      `json:"slot_minutes"`
	ExceptionDates []string `json:"exception_dates,omitempty"`
}

func toWindowItem(w model.TimeWindow) windowItem {
	item := windowItem{
		WindowID:  w.ID,
		ServiceID: w.ServiceID,
		Weekday:   w.Weekday,
		StartTime: model.FormatClock(w.StartMinute),
		EndTime:   model.FormatClock(w.EndMinute),
		SlotMins:  w.SlotMinutes,
	}
	for _, d := range w.ExceptionDates {
		item.ExceptionDates = append(item.ExceptionDates, model.FormatDate(d))
	}
	return item
}

func (h *Handler) Windows(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.addWindow(w, r)
	case http.MethodGet:
		h.listWindows(w, r)
	case http.MethodDelete:
		h.removeWindow(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) addWindow(w http.ResponseWriter, r *http.Request) {
	if providerIDFromHeader(r) == "" {
		http.Error(w, "missing X-Provider-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		ServiceID string `json:"service_id"`
		Weekday   int    `json:"weekday"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		SlotMins  int    `json:"slot_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	if req.ServiceID == "" {
		http.Error(w, "service_id required", http.StatusBadRequest)
		return
	}
	startMinute, err := model.ParseClock(strings.TrimSpace(req.StartTime))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endMinute, err := model.ParseClock(strings.TrimSpace(req.EndTime))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	win, err := h.engine.AddWindow(r.Context(), req.ServiceID, req.Weekday, startMinute, endMinute, req.SlotMins)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWindowItem(win))
}

func (h *Handler) listWindows(w http.ResponseWriter, r *http.Request) {
	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	if serviceID == "" {
		http.Error(w, "service_id required", http.StatusBadRequest)
		return
	}

	windows, err := h.engine.ListWindows(r.Context(), serviceID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	items := make([]windowItem, 0, len(windows))
	for _, win := range windows {
		items = append(items, toWindowItem(win))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) removeWindow(w http.ResponseWriter, r *http.Request) {
	if providerIDFromHeader(r) == "" {
		http.Error(w, "missing X-Provider-Id", http.StatusBadRequest)
		return
	}
	windowID := strings.TrimSpace(r.URL.Query().Get("window_id"))
	if windowID == "" {
		http.Error(w, "window_id required", http.StatusBadRequest)
		return
	}

	if err := h.engine.RemoveWindow(r.Context(), windowID); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) WindowExceptions(w http.ResponseWriter, r *http.Request) {
	if providerIDFromHeader(r) == "" {
		http.Error(w, "missing X-Provider-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		WindowID string `json:"window_id"`
		Date     string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.WindowID = strings.TrimSpace(req.WindowID)
	if req.WindowID == "" {
		http.Error(w, "window_id required", http.StatusBadRequest)
		return
	}
	date, err := model.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPost:
		err = h.engine.AddExceptionDate(r.Context(), req.WindowID, date)
	case http.MethodDelete:
		err = h.engine.RemoveExceptionDate(r.Context(), req.WindowID, date)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
