package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"bookcore/internal/model"
)

type serviceItem struct {
	ServiceID    string `json:"service_id"`
	ProviderID   string `json:"provider_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DurationMins int    `json:"duration_minutes"`
	Price        string `json:"price"`
}

func toServiceItem(s model.Service) serviceItem {
	return serviceItem{
		ServiceID:    s.ID,
		ProviderID:   s.ProviderID,
		Name:         s.Name,
		Description:  s.Description,
		DurationMins: s.DurationMins,
		Price:        s.Price,
	}
}

func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createService(w, r)
	case http.MethodGet:
		h.listServices(w, r)
	case http.MethodPatch:
		h.updateService(w, r)
	case http.MethodDelete:
		h.deactivateService(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	providerID := providerIDFromHeader(r)
	if providerID == "" {
		http.Error(w, "missing X-Provider-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name         string  `json:"name"`
		Description  string  `json:"description"`
		DurationMins int     `json:"duration_minutes"`
		Price        float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	svc, err := h.engine.CreateService(r.Context(), providerID, req.Name, req.Description,
		req.DurationMins, strconv.FormatFloat(req.Price, 'f', 2, 64))
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceItem(svc))
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	providerID := providerIDFromHeader(r)
	if providerID == "" {
		providerID = strings.TrimSpace(r.URL.Query().Get("provider_id"))
	}
	if providerID == "" {
		http.Error(w, "provider_id required", http.StatusBadRequest)
		return
	}

	services, err := h.engine.ListProviderServices(r.Context(), providerID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	items := make([]serviceItem, 0, len(services))
	for _, s := range services {
		items = append(items, toServiceItem(s))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	providerID := providerIDFromHeader(r)
	if providerID == "" {
		http.Error(w, "missing X-Provider-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		ServiceID   string `json:"service_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
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

	svc, err := h.engine.UpdateServiceMetadata(r.Context(), providerID, req.ServiceID, req.Name, req.Description)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceItem(svc))
}

func (h *Handler) deactivateService(w http.ResponseWriter, r *http.Request) {
	providerID := providerIDFromHeader(r)
	if providerID == "" {
		http.Error(w, "missing X-Provider-Id", http.StatusBadRequest)
		return
	}
	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	if serviceID == "" {
		http.Error(w, "service_id required", http.StatusBadRequest)
		return
	}

	if err := h.engine.DeactivateService(r.Context(), providerID, serviceID); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
