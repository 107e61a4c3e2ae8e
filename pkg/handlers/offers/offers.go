package offers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/remi/shift-exchange/pkg/api"
	"github.com/remi/shift-exchange/pkg/mapping"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
	"github.com/remi/shift-exchange/pkg/websockets"
)

// OffersHandler holds the dependencies for offer-related handlers.
type OffersHandler struct {
	Store     storage.ApiStore
	Publisher websockets.Publisher
}

// NewOffersHandler creates a new OffersHandler.
func NewOffersHandler(store storage.ApiStore, publisher websockets.Publisher) *OffersHandler {
	return &OffersHandler{Store: store, Publisher: publisher}
}

// CreateOffer handles the logic for listing a shift for exchange.
func (h *OffersHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var newOffer api.NewOffer
	if err := json.NewDecoder(r.Body).Decode(&newOffer); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	domainOffer, err := mapping.ToDomainNewOffer(&newOffer)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid offer: %v", err), http.StatusBadRequest)
		return
	}

	createdOffer, err := h.Store.CreateOffer(r.Context(), domainOffer)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrGuardNotFound):
			http.Error(w, "No matching shift on the user's calendar", http.StatusConflict)
		case errors.Is(err, storage.ErrGuardAlreadyExchanged):
			http.Error(w, "This shift already has an active listing", http.StatusConflict)
		case errors.Is(err, storage.ErrInvalidExchange):
			http.Error(w, "This shift cannot be listed", http.StatusUnprocessableEntity)
		default:
			slog.Error("failed to create offer", "error", err)
			http.Error(w, fmt.Sprintf("Failed to create offer: %v", err), http.StatusInternalServerError)
		}
		return
	}

	h.publishOfferUpdate(r, createdOffer)

	apiOffer := mapping.ToApiOffer(createdOffer)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiOffer); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListOffers handles the logic for retrieving a tenant's marketplace feed.
func (h *OffersHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	tenant := r.URL.Query().Get("tenant")
	if tenant == "" {
		http.Error(w, "Missing required query parameter: tenant", http.StatusBadRequest)
		return
	}

	from := time.Now()
	if fromParam := r.URL.Query().Get("from"); fromParam != "" {
		parsed, err := time.Parse("2006-01-02", fromParam)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid from date: %v", err), http.StatusBadRequest)
			return
		}
		from = parsed
	}

	domainOffers, err := h.Store.ListActiveOffers(r.Context(), tenant, from)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve offers: %v", err), http.StatusInternalServerError)
		return
	}

	apiOffers := make([]*api.Offer, len(domainOffers))
	for i, offer := range domainOffers {
		apiOffers[i] = mapping.ToApiOffer(&offer)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiOffers); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetOfferById handles the logic for retrieving an offer by its ID.
func (h *OffersHandler) GetOfferById(w http.ResponseWriter, r *http.Request, offerId string) {
	domainOffer, err := h.Store.GetOffer(r.Context(), offerId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve offer: %v", err), http.StatusNotFound)
		return
	}

	apiOffer := mapping.ToApiOffer(domainOffer)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiOffer); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ExpressInterest handles the logic for a user positioning themselves on an offer.
func (h *OffersHandler) ExpressInterest(w http.ResponseWriter, r *http.Request, offerId string) {
	var req api.InterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.Store.ExpressInterest(r.Context(), offerId, req.UserId); err != nil {
		h.writeInterestError(w, err)
		return
	}

	h.refreshAndPublish(r, offerId)
	w.WriteHeader(http.StatusNoContent)
}

// WithdrawInterest handles the logic for a user leaving an offer's interested set.
func (h *OffersHandler) WithdrawInterest(w http.ResponseWriter, r *http.Request, offerId string, userId string) {
	if err := h.Store.WithdrawInterest(r.Context(), offerId, userId); err != nil {
		h.writeInterestError(w, err)
		return
	}

	h.refreshAndPublish(r, offerId)
	w.WriteHeader(http.StatusNoContent)
}

// CancelOffer handles the logic for toggling an offer between PENDING and CANCELLED.
func (h *OffersHandler) CancelOffer(w http.ResponseWriter, r *http.Request, offerId string) {
	updatedOffer, err := h.Store.CancelOffer(r.Context(), offerId)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrExchangeUnavailable):
			http.Error(w, "Offer is frozen by a pending match", http.StatusGone)
		case errors.Is(err, storage.ErrInvalidExchange):
			http.Error(w, "Offer is no longer cancellable", http.StatusUnprocessableEntity)
		default:
			http.Error(w, fmt.Sprintf("Failed to cancel offer: %v", err), http.StatusInternalServerError)
		}
		return
	}

	h.publishOfferUpdate(r, updatedOffer)

	apiOffer := mapping.ToApiOffer(updatedOffer)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiOffer); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

func (h *OffersHandler) writeInterestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrGuardNotFound):
		http.Error(w, "Offer not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrExchangeUnavailable):
		http.Error(w, "Offer is frozen by a pending match", http.StatusGone)
	case errors.Is(err, storage.ErrUserHasGuard):
		http.Error(w, "User already exchanged a shift at this slot", http.StatusConflict)
	case errors.Is(err, storage.ErrInvalidExchange):
		http.Error(w, "Offer is no longer open for interest", http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("Failed to update interest: %v", err), http.StatusInternalServerError)
	}
}

// refreshAndPublish re-reads the offer and pushes its latest state to connected
// clients. A failure here never fails the request that triggered it.
func (h *OffersHandler) refreshAndPublish(r *http.Request, offerId string) {
	offer, err := h.Store.GetOffer(r.Context(), offerId)
	if err != nil {
		slog.Error("failed to get offer for websocket message", "error", err)
		return
	}
	h.publishOfferUpdate(r, offer)
}

func (h *OffersHandler) publishOfferUpdate(r *http.Request, offer *models.Offer) {
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
