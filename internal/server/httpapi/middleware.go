package httpapi

import (
	"net/http"
	"strings"

	"github.com/feedline/feedline/internal/server/auth"
	"github.com/google/uuid"
)

// requestIDMiddleware tags every request with a generated id and writes one
// structured access-log line per request.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		w.Header().Set("X-Request-Id", reqID)
		s.logger.Info(r.Context(), "request", "req_id", reqID, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// authorize extracts and validates the bearer token, writing a 401 response
// itself when the request carries no usable credential.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) (int64, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		writeError(w, http.StatusUnauthorized, "Missing bearer token")
		return 0, false
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return 0, false
	}

	return userID, true
}
