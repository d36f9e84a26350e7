package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"tombola/internal/logging"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the {"error": msg} body used by every failing endpoint
func writeError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]any{"error": msg})
}

// decodeNumber reads {"number": n} from the request body. Anything that is
// not a JSON integer is rejected.
func decodeNumber(r *http.Request) (int, bool) {
	var body struct {
		Number json.RawMessage `json:"number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return 0, false
	}
	if len(body.Number) == 0 {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(body.Number, &n); err != nil {
		return 0, false
	}
	return n, true
}

// ClientIP extracts the client IP from the request
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// logRequests logs each request at debug level. The ResponseWriter is passed
// through untouched so streaming endpoints keep Flusher and Hijacker.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		start := time.Now()
		logging.Debugf("request %s: %s %s from %s", id, r.Method, r.URL.Path, ClientIP(r))
		next.ServeHTTP(w, r)
		logging.Debugf("request %s done in %s", id, time.Since(start))
	})
}
