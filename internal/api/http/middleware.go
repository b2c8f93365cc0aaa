package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"library-lending-backend/internal/config"
	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/logger"
	"library-lending-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey int

const userIDKey ctxKey = iota

// RequestID tags every request with an id, reusing the caller's when it sent one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)
		logger.DebugContext(ctx, "Request received", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler authenticates requests to routes that are not public and puts the
// caller's user id into the request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		template := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if t, err := route.GetPathTemplate(); err == nil {
				template = t
			}
		}

		if config.GetSecurityLevel(r.Method, template) == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			logger.WarnContext(r.Context(), "Rejected authorization header", "path", template, "error", err)
			writeResult(w, http.StatusUnauthorized, domain.Result{Success: false, Message: err.Error()})
			return
		}

		claims, err := m.tokenManager.ValidateAccessToken(token)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, security.ErrWrongTokenType) {
				status = http.StatusForbidden
			}
			logger.InfoContext(r.Context(), "Rejected token", "path", template, "error", err)
			writeResult(w, status, domain.Result{Success: false, Message: err.Error()})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var (
	errTokenMissing   = errors.New("authorization token is not provided")
	errBearerRequired = errors.New("authorization header must use the Bearer scheme")
)

func extractToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errTokenMissing
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errBearerRequired
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errTokenMissing
	}
	return token, nil
}

// UserIDFromContext returns the authenticated caller set by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}
