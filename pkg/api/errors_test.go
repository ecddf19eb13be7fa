package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name  string
		class ErrorClass
		want  bool
	}{
		{"client errors are not retried", ErrorClassClient, false},
		{"server errors are retried", ErrorClassServer, true},
		{"network errors are retried", ErrorClassNetwork, true},
		{"unknown class is not retried", ErrorClass("weird"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRetry(tt.class); got != tt.want {
				t.Errorf("shouldRetry(%q) = %v, want %v", tt.class, got, tt.want)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{400, ErrorClassClient},
		{404, ErrorClassClient},
		{499, ErrorClassClient},
		{500, ErrorClassServer},
		{503, ErrorClassServer},
		{200, ErrorClass("")},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.want {
			t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	serverErr := &APIError{StatusCode: 502, ErrorClass: ErrorClassServer, Message: "bad gateway"}
	wrapped := fmt.Errorf("request: %w", serverErr)

	if got := classify(wrapped); got != ErrorClassServer {
		t.Errorf("classify(wrapped APIError) = %q, want server", got)
	}

	// Local errors classify as client so they are never retried.
	if got := classify(errors.New("marshal failed")); got != ErrorClassClient {
		t.Errorf("classify(local error) = %q, want client", got)
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "without wrapped error",
			err:  &APIError{StatusCode: 404, ErrorClass: ErrorClassClient, Message: "Recipe not found"},
			want: "backend client error (status 404): Recipe not found",
		},
		{
			name: "with wrapped error",
			err:  &APIError{StatusCode: 404, ErrorClass: ErrorClassClient, Message: "Recipe not found", Err: ErrNotFound},
			want: "backend client error (status 404): Recipe not found: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	err := &APIError{StatusCode: 404, ErrorClass: ErrorClassClient, Err: ErrNotFound}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is should see the wrapped sentinel")
	}

	bare := &APIError{StatusCode: 500, ErrorClass: ErrorClassServer}
	if bare.Unwrap() != nil {
		t.Error("Unwrap() of a bare error should be nil")
	}
}
