package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eburns009/ephemeris-service/internal/apierr"
)

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// recoveredError is the cause wrapped for a panic recovered at the request
// boundary; it classifies to apierr's generic internal-error entry.
type recoveredError struct{}

func (*recoveredError) Error() string { return "apierr: handler panic recovered" }

// writeError maps err through the taxonomy and writes the {code, title,
// detail, tip} payload. When the taxonomy entry is a 429 or 503 it sets
// Retry-After to 1 second, unless the caller has already set one.
func writeError(w http.ResponseWriter, requestID string, err error) {
	mapped := apierr.Map(err)
	if (mapped.HTTPStatus == http.StatusTooManyRequests || mapped.HTTPStatus == http.StatusServiceUnavailable) &&
		w.Header().Get("Retry-After") == "" {
		w.Header().Set("Retry-After", "1")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-Id", requestID)
	w.WriteHeader(mapped.HTTPStatus)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Code:   string(mapped.Code),
		Title:  string(mapped.Code),
		Detail: mapped.Error(),
		Tip:    mapped.Tip,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
