package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
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
		t.Fatal("logger is nil after initialization")
	}

	// Re-initialization must be safe
	err = Init()
	if err != nil {
		t.Fatalf("failed to re-initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after re-initialization")
	}
}

func TestLoggerBasic(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "test message",
		String("k", "v"),
		Int64("rows", 42),
		Bool("cached", true),
		Duration("latency", 1500*time.Millisecond),
	)

	out := buf.String()
	for _, want := range []string{"test message", "k=v", "rows=42", "cached=true", "latency=1.5s", "source="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	namedLogger.Info(ctx, "test message")
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer SetLevelString("info")

	if err := SetLevelString("WARN"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Info(context.Background(), "hidden")
	Get().Warn(context.Background(), "shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message missing at warn level")
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSetFormat(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	defer SetFormat(FormatText)

	if err := SetFormat("json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Error(context.Background(), "load failed", Error(errors.New("boom")))

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("json output did not decode: %v (%q)", err, buf.String())
	}
	if record["msg"] != "load failed" {
		t.Errorf("msg = %v, want %q", record["msg"], "load failed")
	}

	buf.Reset()
	if err := SetFormat("tint"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Info(context.Background(), "colored")
	if !strings.Contains(buf.String(), "colored") {
		t.Errorf("tint output missing message: %q", buf.String())
	}

	if err := SetFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
