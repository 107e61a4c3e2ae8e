package assignments

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/remi/shift-exchange/pkg/api"
	"github.com/remi/shift-exchange/pkg/mapping"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
)

// AssignmentsHandler holds the dependencies for assignment-related handlers.
// These endpoints are the scheduling subsystem's write path into the
// assignment map; the exchange flows only ever touch entries transactionally.
type AssignmentsHandler struct {
	Store storage.AssignmentStore
}

// NewAssignmentsHandler creates a new AssignmentsHandler.
func NewAssignmentsHandler(store storage.AssignmentStore) *AssignmentsHandler {
	return &AssignmentsHandler{Store: store}
}

// PutAssignment handles the logic for recording the shift a user holds at a slot.
func (h *AssignmentsHandler) PutAssignment(w http.ResponseWriter, r *http.Request) {
	var newAssignment api.NewAssignment
	if err := json.NewDecoder(r.Body).Decode(&newAssignment); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	domainAssignment, err := mapping.ToDomainNewAssignment(&newAssignment)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid assignment: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.Store.WriteAssignment(r.Context(), domainAssignment); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write assignment: %v", err), http.StatusInternalServerError)
		return
	}

	apiAssignment := mapping.ToApiAssignment(domainAssignment)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiAssignment); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetAssignment handles the logic for reading one assignment map entry.
func (h *AssignmentsHandler) GetAssignment(w http.ResponseWriter, r *http.Request, userId string) {
	slot, tenant, ok := slotFromQuery(w, r)
	if !ok {
		return
	}

	domainAssignment, err := h.Store.ReadAssignment(r.Context(), tenant, userId, slot)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve assignment: %v", err), http.StatusInternalServerError)
		return
	}
	if domainAssignment == nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}

	apiAssignment := mapping.ToApiAssignment(domainAssignment)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiAssignment); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// DeleteAssignment handles the logic for clearing one assignment map entry.
func (h *AssignmentsHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request, userId string) {
	slot, tenant, ok := slotFromQuery(w, r)
	if !ok {
		return
	}

	if err := h.Store.ClearAssignment(r.Context(), tenant, userId, slot); err != nil {
		http.Error(w, fmt.Sprintf("Failed to delete assignment: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// slotFromQuery pulls the tenant, date and period query parameters that
// identify one entry. It writes the error response itself when they are
// missing or malformed.
func slotFromQuery(w http.ResponseWriter, r *http.Request) (models.Slot, string, bool) {
	query := r.URL.Query()
	tenant := query.Get("tenant")
	date := query.Get("date")
	periodParam := query.Get("period")

	if tenant == "" || date == "" || periodParam == "" {
		http.Error(w, "Missing required query parameters: tenant, date, period", http.StatusBadRequest)
		return models.Slot{}, "", false
	}

	period, err := models.ParsePeriod(periodParam)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid period: %v", err), http.StatusBadRequest)
		return models.Slot{}, "", false
	}

	return models.Slot{Date: date, Period: period}, tenant, true
}
