package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"malformed operand", ErrMalformedOperand, http.StatusBadRequest},
		{"wrapped malformed operand", fmt.Errorf("building tree: %w", ErrMalformedOperand), http.StatusBadRequest},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"index unavailable", ErrIndexUnavailable, http.StatusServiceUnavailable},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"app error", New(ErrInternal, http.StatusBadGateway, "upstream"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrSynonymLookup, http.StatusServiceUnavailable, "span %v", []string{"hello"})
	if !errors.Is(err, ErrSynonymLookup) {
		t.Error("AppError does not unwrap to its sentinel")
	}
	if err.Error() == "" {
		t.Error("empty error message")
	}
}
