package requestid

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderName = "X-Request-ID"

type contextKey struct{}

type RequestID struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) RequestID {
	return RequestID{logger: logger}
}

// Handler tags every request with an id, reusing the one sent by the client
// when it is a valid UUID.
func (rid RequestID) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(HeaderName, id)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))

		rid.logger.Debug("request handled", zap.String("requestID", id), zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Duration("took", time.Since(start)))
	})
}

// FromContext returns the id assigned to the request, if any.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
