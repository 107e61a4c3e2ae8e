package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/remi/shift-exchange/pkg/handlers/assignments"
	"github.com/remi/shift-exchange/pkg/handlers/exchanges"
	"github.com/remi/shift-exchange/pkg/handlers/offers"
	"github.com/remi/shift-exchange/pkg/middleware"
	"github.com/remi/shift-exchange/pkg/storage"
	"github.com/remi/shift-exchange/pkg/websockets"
)

// NewRouter wires every HTTP endpoint onto a chi router.
func NewRouter(store storage.ApiStore, publisher websockets.Publisher, wsHandler http.Handler, logger *slog.Logger) *chi.Mux {
	offersHandler := offers.NewOffersHandler(store, publisher)
	exchangesHandler := exchanges.NewExchangesHandler(store, publisher)
	assignmentsHandler := assignments.NewAssignmentsHandler(store)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/offers", func(r chi.Router) {
		r.Post("/", offersHandler.CreateOffer)
		r.Get("/", offersHandler.ListOffers)
		r.Get("/{offerId}", func(w http.ResponseWriter, r *http.Request) {
			offersHandler.GetOfferById(w, r, chi.URLParam(r, "offerId"))
		})
		r.Post("/{offerId}/interest", func(w http.ResponseWriter, r *http.Request) {
			offersHandler.ExpressInterest(w, r, chi.URLParam(r, "offerId"))
		})
		r.Delete("/{offerId}/interest/{userId}", func(w http.ResponseWriter, r *http.Request) {
			offersHandler.WithdrawInterest(w, r, chi.URLParam(r, "offerId"), chi.URLParam(r, "userId"))
		})
		r.Post("/{offerId}/cancel", func(w http.ResponseWriter, r *http.Request) {
			offersHandler.CancelOffer(w, r, chi.URLParam(r, "offerId"))
		})
		r.Post("/{offerId}/validate", func(w http.ResponseWriter, r *http.Request) {
			exchangesHandler.ValidateMatch(w, r, chi.URLParam(r, "offerId"))
		})
	})

	router.Route("/exchanges", func(r chi.Router) {
		r.Get("/", exchangesHandler.ListExchanges)
		r.Get("/{exchangeId}", func(w http.ResponseWriter, r *http.Request) {
			exchangesHandler.GetExchangeById(w, r, chi.URLParam(r, "exchangeId"))
		})
		r.Post("/{exchangeId}/revert", func(w http.ResponseWriter, r *http.Request) {
			exchangesHandler.RevertExchange(w, r, chi.URLParam(r, "exchangeId"))
		})
	})

	router.Route("/assignments", func(r chi.Router) {
		r.Put("/", assignmentsHandler.PutAssignment)
		r.Get("/{userId}", func(w http.ResponseWriter, r *http.Request) {
			assignmentsHandler.GetAssignment(w, r, chi.URLParam(r, "userId"))
		})
		r.Delete("/{userId}", func(w http.ResponseWriter, r *http.Request) {
			assignmentsHandler.DeleteAssignment(w, r, chi.URLParam(r, "userId"))
		})
	})

	if wsHandler != nil {
		router.Handle("/ws", wsHandler)
	}

	return router
}
