package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"network error", &NetworkError{Cause: errors.New("connection refused")}, ErrorClassNetwork},
		{"server error", &HTTPError{StatusCode: 503}, ErrorClassServer},
		{"rate limit", &HTTPError{StatusCode: 429}, ErrorClassRateLimit},
		{"not found", &HTTPError{StatusCode: 404}, ErrorClassClient},
		{"forbidden", &HTTPError{StatusCode: 403}, ErrorClassClient},
		{"wrapped http error", fmt.Errorf("fetch: %w", &HTTPError{StatusCode: 500}), ErrorClassServer},
		{"unknown error treated as network", errors.New("weird"), ErrorClassNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{ErrorClassClient, false},
		{ErrorClassServer, true},
		{ErrorClassRateLimit, true},
		{ErrorClassNetwork, true},
		{"", false},
	}

	for _, tt := range tests {
		if got := shouldRetry(tt.class); got != tt.want {
			t.Errorf("shouldRetry(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &NetworkError{Cause: cause}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	if err.Error() == "" {
		t.Error("Error() returned empty string")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"404", &HTTPError{StatusCode: 404}, true},
		{"wrapped 404", fmt.Errorf("brand fetch: %w", &HTTPError{StatusCode: 404}), true},
		{"500", &HTTPError{StatusCode: 500}, false},
		{"network", &NetworkError{Cause: errors.New("x")}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}
