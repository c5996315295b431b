package client

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{200, ""},
		{204, ""},
		{304, ""},
		{302, ErrorClassClient},
		{400, ErrorClassClient},
		{404, ErrorClassNotFound},
		{429, ErrorClassClient},
		{500, ErrorClassServer},
		{503, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.want {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"network with status", &NetworkError{Endpoint: "/pokemon", StatusCode: 502}, ErrNetwork, "status 502"},
		{"network transport", &NetworkError{Endpoint: "/pokemon", Err: cause}, ErrNetwork, "connection refused"},
		{"not found", &NotFoundError{Resource: "pokemon", ID: "missingno"}, ErrNotFound, `"missingno" not found`},
		{"decode", &DecodeError{Endpoint: "/pokemon/1", Err: cause}, ErrDecode, "decode /pokemon/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("fetch: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			for _, other := range []error{ErrNetwork, ErrNotFound, ErrDecode} {
				if other != tt.sentinel && errors.Is(wrapped, other) {
					t.Errorf("%v unexpectedly matches %v", wrapped, other)
				}
			}
			if !strings.Contains(tt.err.Error(), tt.message) {
				t.Errorf("Error() = %q, want containing %q", tt.err.Error(), tt.message)
			}
		})
	}
}

func TestNetworkError_UnwrapsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := &NetworkError{Endpoint: "/type", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}
