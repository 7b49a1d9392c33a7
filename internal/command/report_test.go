package command

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/genricoloni/spotui/internal/domain"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		err  error
		want string
	}{
		{
			name: "Service error",
			id:   Next,
			err:  domain.NewServiceError("next", domain.KindNetwork, errors.New("connection refused")),
			want: "[!] next failed: network: connection refused",
		},
		{
			name: "Wrapped service error",
			id:   Volume,
			err:  fmt.Errorf("setting volume: %w", domain.Unsupported("volume", "mpris")),
			want: "[!] volume failed: unsupported: not available with the mpris backend",
		},
		{
			name: "Usage error",
			id:   Volume,
			err:  fmt.Errorf("%w: volume <0-100>", ErrUsage),
			want: "[!] volume failed: usage: volume <0-100>",
		},
		{
			name: "Unknown command",
			id:   Unknown,
			err:  fmt.Errorf("%w %q (try help)", ErrUnknownCommand, "dance"),
			want: `[!] unknown command "dance" (try help)`,
		},
		{name: "No error", id: Next, err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Report(tt.id, tt.err); got != tt.want {
				t.Errorf("Report() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{999, "0:00"},
		{65000, "1:05"},
		{185000 - 65000, "2:00"},
		{185000, "3:05"},
		{3600000, "60:00"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestHelp(t *testing.T) {
	md := HelpMarkdown()
	for _, spec := range Specs() {
		for _, verb := range spec.Verbs {
			if !strings.Contains(md, verb) {
				t.Errorf("help does not mention %q", verb)
			}
		}
	}

	out, err := RenderHelp(md, 60, "notty")
	if err != nil {
		t.Fatalf("RenderHelp failed: %v", err)
	}
	if !strings.Contains(out, "Commands") || !strings.Contains(out, "volume") {
		t.Errorf("unexpected help output:\n%s", out)
	}
}
