package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type CirculationHandler struct {
	svc      service.CirculationService
	validate *validator.Validate
}

func NewCirculationHandler(svc service.CirculationService) *CirculationHandler {
	return &CirculationHandler{
		svc:      svc,
		validate: newValidator(),
	}
}

type reserveRequest struct {
	PickupDate string `json:"pickupDate" validate:"omitempty,datetime=2006-01-02"`
}

func (h *CirculationHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	bookID, userID, ok := h.bookAndUser(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Borrow(r.Context(), bookID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, "Book borrowed successfully", res)
}

func (h *CirculationHandler) Return(w http.ResponseWriter, r *http.Request) {
	bookID, userID, ok := h.bookAndUser(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Return(r.Context(), bookID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, res.Message(), res)
}

func (h *CirculationHandler) Renew(w http.ResponseWriter, r *http.Request) {
	bookID, userID, ok := h.bookAndUser(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Renew(r.Context(), bookID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, "Book renewed successfully", res)
}

func (h *CirculationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	bookID, userID, ok := h.bookAndUser(w, r)
	if !ok {
		return
	}

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, domain.InvalidInput("request body must be JSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	res, err := h.svc.Reserve(r.Context(), bookID, userID, req.PickupDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, "Book reserved successfully", res)
}

func (h *CirculationHandler) ListBorrowers(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	views, err := h.svc.ListBookBorrowers(r.Context(), bookID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, "", views)
}

func (h *CirculationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	reservationID, userID, ok := h.reservationAndUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.CancelReservation(r.Context(), reservationID, userID); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, "Reservation cancelled", nil)
}

func (h *CirculationHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	reservationID, userID, ok := h.reservationAndUser(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Pickup(r.Context(), reservationID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, "Book picked up successfully", res)
}

func (h *CirculationHandler) MyLoans(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	views, err := h.svc.ListUserLoans(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, "", views)
}

func (h *CirculationHandler) MyReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	views, err := h.svc.ListUserReservations(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, "", views)
}

func (h *CirculationHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	entries, err := h.svc.ListUserHistory(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, "", entries)
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, "ok", nil)
}

func (h *CirculationHandler) user(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeResult(w, http.StatusUnauthorized, domain.Result{Success: false, Message: "unauthenticated"})
	}
	return userID, ok
}

func (h *CirculationHandler) bookAndUser(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		writeError(w, r, err)
		return 0, 0, false
	}
	userID, ok := h.user(w, r)
	return bookID, userID, ok
}

func (h *CirculationHandler) reservationAndUser(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	reservationID, err := pathID(r, "reservationId")
	if err != nil {
		writeError(w, r, err)
		return 0, 0, false
	}
	userID, ok := h.user(w, r)
	return reservationID, userID, ok
}

// pathID reads a positive numeric id from the route variables.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidInput("invalid " + name + ": " + strconv.Quote(raw))
	}
	return id, nil
}
