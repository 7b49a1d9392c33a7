package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestServiceError_Error(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name       string
		err        *ServiceError
		wantError  string
		wantReason string
	}{
		{
			name:       "Message",
			err:        &ServiceError{Kind: KindAuth, Op: "play", Message: "token expired"},
			wantError:  "play: auth: token expired",
			wantReason: "token expired",
		},
		{
			name:       "Cause Only",
			err:        &ServiceError{Kind: KindNetwork, Op: "next", Err: cause},
			wantError:  "next: network: connection refused",
			wantReason: "connection refused",
		},
		{
			name:       "No Op",
			err:        &ServiceError{Kind: KindService, Message: "boom"},
			wantError:  "service: boom",
			wantReason: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantError {
				t.Errorf("Error() = %q, want %q", got, tt.wantError)
			}
			if got := tt.err.Reason(); got != tt.wantReason {
				t.Errorf("Reason() = %q, want %q", got, tt.wantReason)
			}
		})
	}
}

func TestNewServiceError_Classifies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		want ErrorKind
	}{
		{name: "Deadline", err: context.DeadlineExceeded, want: KindNetwork},
		{name: "Canceled", err: fmt.Errorf("wrapped: %w", context.Canceled), want: KindNetwork},
		{name: "Other", err: errors.New("odd"), want: KindService},
		{name: "Explicit Kind Wins", err: context.DeadlineExceeded, kind: KindRateLimited, want: KindRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := NewServiceError("op", tt.kind, tt.err)
			if se.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", se.Kind, tt.want)
			}
			if !errors.Is(se, tt.err) {
				t.Error("cause is not unwrapped")
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("search: %w", Unsupported("search", "mpris"))
	if !IsKind(err, KindUnsupported) {
		t.Error("expected unsupported through wrapping")
	}
	if IsKind(err, KindNetwork) {
		t.Error("wrong kind matched")
	}
	if IsKind(errors.New("plain"), KindService) {
		t.Error("plain errors have no kind")
	}
}
