package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"bookcore/internal/engine"
	"bookcore/internal/model"
)

// Handler is the thin HTTP shell over the scheduling engine. It parses and
// normalizes requests, reads the already-resolved actor identity from
// headers, and maps the engine's typed errors to status codes; all rules
// live in the engine.
type Handler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func New(eng *engine.Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: eng, logger: logger}
}

func clientIDFromHeader(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Client-Id"))
}

func providerIDFromHeader(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Provider-Id"))
}

// actorFromHeader returns whichever party header is present; used by
// endpoints either party may call.
func actorFromHeader(r *http.Request) string {
	if id := clientIDFromHeader(r); id != "" {
		return id
	}
	return providerIDFromHeader(r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case engine.IsNotFound(err):
		status = http.StatusNotFound
	case engine.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case engine.IsConflict(err):
		status = http.StatusConflict
	case engine.IsUnauthorized(err):
		status = http.StatusForbidden
	case engine.IsInvalidTransition(err):
		status = http.StatusConflict
	default:
		h.logger.Error("engine operation failed", "path", r.URL.Path, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Error(w, err.Error(), status)
}

type slotItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type appointmentItem struct {
	AppointmentID string `json:"appointment_id"`
	ClientID      string `json:"client_id"`
	ProviderID    string `json:"provider_id"`
	ServiceID     string `json:"service_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
}

func toAppointmentItem(a model.Appointment) appointmentItem {
	return appointmentItem{
		AppointmentID: a.ID,
		ClientID:      a.ClientID,
		ProviderID:    a.ProviderID,
		ServiceID:     a.ServiceID,
		Date:          model.FormatDate(a.Date),
		StartTime:     model.FormatClock(a.StartMinute),
		EndTime:       model.FormatClock(a.EndMinute),
		Status:        string(a.Status),
	}
}

func appointmentItems(appts []model.Appointment) []appointmentItem {
	items := make([]appointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, toAppointmentItem(a))
	}
	return items
}
