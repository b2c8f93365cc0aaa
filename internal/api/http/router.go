package http

import (
	"net/http"

	"library-lending-backend/internal/security"
	"library-lending-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter wires the circulation endpoints behind request ids and bearer auth.
func NewRouter(svc service.CirculationService, tm security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestID)
	router.Use(NewAuthMiddleware(tm).Handler)

	router.HandleFunc("/health", Health).Methods(http.MethodGet)

	h := NewCirculationHandler(svc)
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/books/{bookId}/borrow", h.Borrow).Methods(http.MethodPost)
	api.HandleFunc("/books/{bookId}/return", h.Return).Methods(http.MethodPost)
	api.HandleFunc("/books/{bookId}/renew", h.Renew).Methods(http.MethodPost)
	api.HandleFunc("/books/{bookId}/reserve", h.Reserve).Methods(http.MethodPost)
	api.HandleFunc("/books/{bookId}/borrowers", h.ListBorrowers).Methods(http.MethodGet)

	api.HandleFunc("/reservations/{reservationId}", h.CancelReservation).Methods(http.MethodDelete)
	api.HandleFunc("/reservations/{reservationId}/pickup", h.Pickup).Methods(http.MethodPost)

	api.HandleFunc("/me/loans", h.MyLoans).Methods(http.MethodGet)
	api.HandleFunc("/me/reservations", h.MyReservations).Methods(http.MethodGet)
	api.HandleFunc("/me/history", h.MyHistory).Methods(http.MethodGet)

	return router
}
