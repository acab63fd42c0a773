package http

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"moneyx/internal/cache"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
)

// storedResponse is a successful mutation response kept for replay.
type storedResponse struct {
	status      int
	contentType string
	body        []byte
}

// idempotency replays the stored response when a mutating request repeats
// an Idempotency-Key. Only 2xx responses are stored, so a failed attempt
// can be retried.
type idempotency struct {
	responses *cache.LRUCache[storedResponse]
	ttl       time.Duration
}

func newIdempotency(ttl time.Duration) *idempotency {
	if ttl <= 0 {
		return nil
	}
	return &idempotency{
		responses: cache.NewLRUCache[storedResponse](1000, ttl),
		ttl:       ttl,
	}
}

// idempotencyKey scopes the client key to the signed-in user, so a key
// reused after switching users never replays another user's response.
func idempotencyKey(r *http.Request, userID string) string {
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if key == "" || !isMutation(r.Method) {
		return ""
	}
	return userID + " " + r.Method + " " + r.URL.Path + " " + key
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// recorder tees the response so it can be stored.
type recorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (rec *recorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	rec.buf.Write(b)
	return rec.ResponseWriter.Write(b)
}

func (s *Server) withIdempotency(next http.Handler) http.Handler {
	if s.idem == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := s.sessions.CurrentUserID()
		key := idempotencyKey(r, userID)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		if resp, ok := s.idem.responses.Get(key); ok {
			s.metrics.idempotentReplays.Add(1)
			w.Header().Set(replayedHeader, "true")
			if resp.contentType != "" {
				w.Header().Set("Content-Type", resp.contentType)
			}
			w.WriteHeader(resp.status)
			_, _ = w.Write(resp.body)
			return
		}

		rec := &recorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status >= 200 && rec.status < 300 {
			s.idem.responses.Set(key, storedResponse{
				status:      rec.status,
				contentType: w.Header().Get("Content-Type"),
				body:        append([]byte(nil), rec.buf.Bytes()...),
			})
		}
	})
}
