package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	// Test development mode
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize development logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Test production mode
	err = Init()
	if err != nil {
		t.Fatalf("failed to initialize production logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger = Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

// Basic logging test (slog-backed; no Sugar)
func TestLoggerBasic(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil")
	}

	ctx := context.Background()
	logger.Info(ctx, "test message", String("k", "v"))
}

func TestLoggerNamed(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	namedLogger.Info(ctx, "test message")
}

func TestLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, FormatJSON, slog.LevelDebug)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	l.Named("session").Debug(context.Background(), "received", Int64("fields", 15), Bool("skeleton", true),
		Duration("elapsed", 2*time.Millisecond))

	out := buf.String()
	for _, want := range []string{`"msg":"received"`, `"fields":15`, `"skeleton":true`, `"session"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}

	if _, err := NewWithWriter(&buf, "xml", slog.LevelInfo); err == nil {
		t.Error("expected unknown format to fail")
	}
}

func TestSetLevelString(t *testing.T) {
	if err := InitWithFormat(FormatText); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	for _, level := range []string{"debug", "INFO", "warning", "error", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("unexpected error for %q: %v", level, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected unknown level to fail")
	}
	Discard().Error(context.Background(), "dropped")
}
