package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/thoreinstein/resindex/internal/logging"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// testContext returns a context carrying a test logger.
func testContext(t *testing.T) context.Context {
	t.Helper()
	return logging.NewContext(t.Context(), logging.ForTest(t))
}

// setFlag sets a package-level flag variable for the duration of the test.
func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	orig := *p
	*p = v
	t.Cleanup(func() { *p = orig })
}

// writeFiles creates files below root. Keys are slash-separated relative
// paths.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// createTestResources builds a user location with one resource of several
// types, including a malformed color scheme, and points --location at it.
func createTestResources(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"templates/box.json":            `{"title": "Box"}`,
		"fonts/Liberation.ttf":          "font",
		"color-schemes/editor/bad.json": "{\n  \"name\" \"Broken\"\n}\n",
		"libraries/BOSL2/std.scad":      "include <x.scad>",
		"libraries/BOSL2/std.png":       "png",
		"templates/notes.txt":           "ignored",
		".hidden/templates/secret.json": "{}",
	})
	setFlag(t, &locationFlags, []string{"user=" + root})
	return root
}

func TestExplicitLocations(t *testing.T) {
	dir := t.TempDir()

	locs, err := explicitLocations([]string{"user=" + dir, "installation=" + filepath.Join(dir, "missing")})
	if err != nil {
		t.Fatalf("explicitLocations() error = %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("len = %d, want 2", len(locs))
	}
	if !locs[0].Exists || !locs[0].Scannable() {
		t.Errorf("first location should exist and be scannable: %+v", locs[0])
	}
	if locs[1].Exists {
		t.Errorf("second location should not exist: %+v", locs[1])
	}

	for _, bad := range []string{"user", "nowhere=/tmp"} {
		if _, err := explicitLocations([]string{bad}); err == nil {
			t.Errorf("explicitLocations(%q) expected error", bad)
		}
	}
}

func TestWriteStructured_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := writeStructured(&buf, "xml", struct{}{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"much-too-long", 8, "much-..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
