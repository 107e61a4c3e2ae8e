package exchanges

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/remi/shift-exchange/pkg/api"
	"github.com/remi/shift-exchange/pkg/mapping"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
	"github.com/remi/shift-exchange/pkg/websockets"
)

// defaultHistoryLimit caps the exchange feed when the client does not ask
// for a specific page size.
const defaultHistoryLimit = int32(50)

// ExchangesHandler holds the dependencies for exchange-related handlers.
type ExchangesHandler struct {
	Store     storage.ApiStore
	Publisher websockets.Publisher
}

// NewExchangesHandler creates a new ExchangesHandler.
func NewExchangesHandler(store storage.ApiStore, publisher websockets.Publisher) *ExchangesHandler {
	return &ExchangesHandler{Store: store, Publisher: publisher}
}

// ValidateMatch handles the logic for an admin confirming an offer with one
// of its interested users. On success the exchange record is returned.
func (h *ExchangesHandler) ValidateMatch(w http.ResponseWriter, r *http.Request, offerId string) {
	var req api.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	record, err := h.Store.ValidateMatch(r.Context(), offerId, req.InterestedUserId, req.ValidatedBy)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrGuardNotFound):
			http.Error(w, "A calendar entry named in the match is missing", http.StatusConflict)
		case errors.Is(err, storage.ErrExchangeUnavailable):
			http.Error(w, "Offer was taken by a concurrent match", http.StatusGone)
		case errors.Is(err, storage.ErrUserHasGuard):
			http.Error(w, "Interested user already holds a shift at this slot", http.StatusConflict)
		case errors.Is(err, storage.ErrInvalidExchange):
			http.Error(w, "Offer cannot be validated", http.StatusUnprocessableEntity)
		default:
			slog.Error("failed to validate match", "error", err)
			http.Error(w, fmt.Sprintf("Failed to validate match: %v", err), http.StatusInternalServerError)
		}
		return
	}

	h.publishExchangeUpdate(r, record)

	apiExchange := mapping.ToApiExchange(record)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiExchange); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// RevertExchange handles the logic for undoing a completed exchange. The
// shift goes back on the marketplace as a fresh offer, which is returned.
func (h *ExchangesHandler) RevertExchange(w http.ResponseWriter, r *http.Request, exchangeId string) {
	relistedOffer, err := h.Store.RevertMatch(r.Context(), exchangeId)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrGuardNotFound):
			http.Error(w, "A calendar entry named in the exchange is missing", http.StatusConflict)
		case errors.Is(err, storage.ErrInvalidExchange):
			http.Error(w, "Exchange is not revertible", http.StatusUnprocessableEntity)
		default:
			slog.Error("failed to revert exchange", "error", err)
			http.Error(w, fmt.Sprintf("Failed to revert exchange: %v", err), http.StatusInternalServerError)
		}
		return
	}

	// Push the reverted record and the relisted offer to connected clients.
	if record, err := h.Store.GetHistoryRecord(r.Context(), exchangeId); err != nil {
		slog.Error("failed to get exchange for websocket message", "error", err)
	} else {
		h.publishExchangeUpdate(r, record)
	}
	h.publishOfferUpdate(r, relistedOffer)

	apiOffer := mapping.ToApiOffer(relistedOffer)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiOffer); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetExchangeById handles the logic for retrieving an exchange record by its ID.
func (h *ExchangesHandler) GetExchangeById(w http.ResponseWriter, r *http.Request, exchangeId string) {
	record, err := h.Store.GetHistoryRecord(r.Context(), exchangeId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve exchange: %v", err), http.StatusNotFound)
		return
	}

	apiExchange := mapping.ToApiExchange(record)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiExchange); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListExchanges handles the logic for retrieving a tenant's exchange feed,
// most recent first.
func (h *ExchangesHandler) ListExchanges(w http.ResponseWriter, r *http.Request) {
	tenant := r.URL.Query().Get("tenant")
	if tenant == "" {
		http.Error(w, "Missing required query parameter: tenant", http.StatusBadRequest)
		return
	}

	limit := defaultHistoryLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.ParseInt(limitParam, 10, 32)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = int32(parsed)
	}

	records, err := h.Store.ListHistory(r.Context(), tenant, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve exchanges: %v", err), http.StatusInternalServerError)
		return
	}

	apiExchanges := make([]*api.Exchange, len(records))
	for i, record := range records {
		apiExchanges[i] = mapping.ToApiExchange(&record)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiExchanges); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

func (h *ExchangesHandler) publishExchangeUpdate(r *http.Request, record *models.HistoryRecord) {
	msg := websockets.Message{
		Type: websockets.MessageTypeExchangeUpdate,
		Payload: websockets.ExchangeUpdatePayload{
			Tenant:         record.Tenant,
			ExchangeID:     record.Id,
			OriginalUserID: record.OriginalUserId,
			NewUserID:      record.NewUserId,
			Date:           record.Slot.Date,
			Period:         string(record.Slot.Period),
			Status:         string(record.Status),
		},
	}
	if err := h.Publisher.Publish(r.Context(), msg); err != nil {
		slog.Error("failed to publish websocket message", "error", err)
	}
}

func (h *ExchangesHandler) publishOfferUpdate(r *http.Request, offer *models.Offer) {
	msg := websockets.Message{
		Type: websockets.MessageTypeOfferUpdate,
		Payload: websockets.OfferUpdatePayload{
			Tenant:  offer.Tenant,
			OfferID: offer.Id,
			Date:    offer.Slot.Date,
			Period:  string(offer.Slot.Period),
			Status:  string(offer.Status),
		},
	}
	if err := h.Publisher.Publish(r.Context(), msg); err != nil {
		slog.Error("failed to publish websocket message", "error", err)
	}
}
