package http

import (
	"errors"
	"net/http"

	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/logger"
	"library-lending-backend/internal/service"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeResult(w http.ResponseWriter, status int, result domain.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeResult(w, http.StatusOK, domain.Succeed(message, data))
}

// writeError turns err into the failure envelope. Rule rejections keep their
// message; anything else is logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		writeResult(w, status, domain.Result{Success: false, Message: "internal error"})
		return
	}
	writeResult(w, status, domain.Fail(err))
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindLimitExceeded, domain.KindConflict:
		return http.StatusConflict
	case domain.KindStatePrecondition:
		return http.StatusUnprocessableEntity
	case domain.KindInputValidation:
		return http.StatusBadRequest
	}
	if errors.Is(err, service.ErrSnapshotBusy) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
