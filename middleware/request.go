package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/logging"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// statusRecorder remembers the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RequestID tags each request with the caller's X-Request-ID or a fresh
// uuid and logs the request once it completes
func RequestID(next http.Handler) http.Handler {
	base := logging.WithPrefix("HTTP")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		started := time.Now()
		rec := newStatusRecorder(w)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger := base.With("request_id", id)
		elapsed := time.Since(started).Round(time.Microsecond)
		switch {
		case rec.status >= http.StatusInternalServerError:
			logger.Errorf("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, elapsed)
		case rec.status >= http.StatusBadRequest:
			logger.Warnf("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, elapsed)
		default:
			logger.Infof("%s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, rec.status, rec.bytes, elapsed)
		}
	})
}

// RequestIDFrom returns the id assigned by RequestID
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
