package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	r := slog.NewRecord(time.Time{}, slog.LevelWarn, "location missing", 0)
	r.AddAttrs(slog.String("tier", "machine"), slog.Int("count", 0))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := "WARN  location missing tier=machine count=0\n"
	if got := buf.String(); got != want {
		t.Errorf("Handle() wrote %q, want %q", got, want)
	}
}

func TestHandler_ShortensHomePaths(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)
	h.home = "/home/jeff"

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "scan", 0)
	r.AddAttrs(
		slog.String("path", "/home/jeff/.local/share/openscad"),
		slog.String("other", "/home/jeffrey/x"),
	)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "path=~/.local/share/openscad") {
		t.Errorf("home path not shortened: %q", out)
	}
	if !strings.Contains(out, "other=/home/jeffrey/x") {
		t.Errorf("sibling prefix should not be shortened: %q", out)
	}
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := NewHandler(&buf, nil)
	h := base.WithAttrs([]slog.Attr{slog.String("component", "scanner")}).WithGroup("scan")

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "done", 0)
	r.AddAttrs(slog.Int("count", 2))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "scan.count=2") {
		t.Errorf("group prefix missing: %q", out)
	}
	if len(base.attrs) != 0 {
		t.Error("WithAttrs mutated the parent handler")
	}
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Info should be disabled at Warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Error should be enabled at Warn level")
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(
		NewHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	logger.Info("only text")
	logger.Error("both")

	if !strings.Contains(a.String(), "only text") || !strings.Contains(a.String(), "both") {
		t.Errorf("text handler output = %q", a.String())
	}
	if strings.Contains(b.String(), "only text") || !strings.Contains(b.String(), "both") {
		t.Errorf("json handler output = %q", b.String())
	}
}

func TestNewMultiHandler_Single(t *testing.T) {
	h := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if got := NewMultiHandler(nil, h); got != slog.Handler(h) {
		t.Errorf("NewMultiHandler(nil, h) = %T, want the handler itself", got)
	}
}

func TestSupportsColor(t *testing.T) {
	tests := []struct {
		name    string
		noColor string
		force   string
		term    string
		isTTY   bool
		want    bool
	}{
		{name: "tty", term: "xterm-256color", isTTY: true, want: true},
		{name: "pipe", term: "xterm-256color", want: false},
		{name: "NO_COLOR", noColor: "1", term: "xterm-256color", isTTY: true, want: false},
		{name: "dumb terminal", term: "dumb", isTTY: true, want: false},
		{name: "FORCE_COLOR on pipe", force: "1", term: "xterm", want: true},
		{name: "NO_COLOR beats FORCE_COLOR", noColor: "1", force: "1", isTTY: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("FORCE_COLOR", tt.force)
			t.Setenv("TERM", tt.term)

			if got := supportsColor(tt.isTTY); got != tt.want {
				t.Errorf("supportsColor(%v) = %v, want %v", tt.isTTY, got, tt.want)
			}
		})
	}
}

func TestIsTTY_NonFile(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("bytes.Buffer should not be a TTY")
	}
}
