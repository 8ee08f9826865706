package shared

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestIsRetryable(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "network", err: fmt.Errorf("%w: dial tcp: timeout", ErrNetwork), want: true},
		{name: "upstream 503", err: fmt.Errorf("%w: status 503", ErrServiceUnavailable), want: true},
		{name: "auth", err: fmt.Errorf("%w: status 401", ErrAuthFailed), want: false},
		{name: "auth over network", err: fmt.Errorf("%w: %w: refused", ErrAuthFailed, ErrNetwork), want: true},
		{name: "malformed", err: ErrMalformedResponse, want: false},
		{name: "unrelated", err: errors.New("boom"), want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		if err := SetLogLevel(logger, "warn"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logger.GetLevel() != log.WarnLevel {
			t.Errorf("expected warn level, got %v", logger.GetLevel())
		}

		logger.Info("hidden")
		if strings.Contains(buf.String(), "hidden") {
			t.Error("info message should be filtered at warn level")
		}
	})

	t.Run("SetLogLevel empty keeps level", func(t *testing.T) {
		logger := NewLogger(&bytes.Buffer{})
		before := logger.GetLevel()

		if err := SetLogLevel(logger, ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logger.GetLevel() != before {
			t.Errorf("expected level %v, got %v", before, logger.GetLevel())
		}
	})

	t.Run("SetLogLevel invalid", func(t *testing.T) {
		err := SetLogLevel(NewLogger(&bytes.Buffer{}), "chatty")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected key-value pair in output, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected 36 character UUID, got %d", len(a))
	}
}
