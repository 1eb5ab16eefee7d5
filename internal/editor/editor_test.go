package editor

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDetectEditor(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		visual string
		want   string
	}{
		{name: "EDITOR wins", editor: "nvim", visual: "code", want: "nvim"},
		{name: "VISUAL fallback", visual: "code", want: "code"},
		{name: "blank EDITOR treated as unset", editor: "   ", visual: "vscode", want: "vscode"},
		{name: "arguments kept", editor: "code --wait", want: "code --wait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			if got := detectEditor(); got != tt.want {
				t.Errorf("detectEditor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectEditor_PlatformDefault(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	got := detectEditor()
	switch {
	case runtime.GOOS == "windows":
		if got != "notepad" {
			t.Errorf("detectEditor() = %q, want notepad", got)
		}
	case got == "nano":
		if _, err := exec.LookPath("nano"); err != nil {
			t.Error("detectEditor() = nano, but nano is not installed")
		}
	case got != "vi":
		t.Errorf("detectEditor() = %q, want nano or vi", got)
	}
}

func TestCommand_SplitsArguments(t *testing.T) {
	t.Setenv("EDITOR", "code --wait")

	cmd := Command(t.Context(), "/res/templates/box.json")
	want := []string{"code", "--wait", "/res/templates/box.json"}
	if strings.Join(cmd.Args, " ") != strings.Join(want, " ") {
		t.Errorf("Args = %q, want %q", cmd.Args, want)
	}
}

func TestOpen_Integration(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping integration test on windows (uses shell script mock)")
	}

	tmpDir := t.TempDir()
	mockEditor := filepath.Join(tmpDir, "mock-editor.sh")
	outputFile := filepath.Join(tmpDir, "output.txt")

	// The mock editor records its arguments.
	script := "#!/bin/sh\necho \"$@\" > " + outputFile + "\n"
	if err := os.WriteFile(mockEditor, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EDITOR", mockEditor)

	target := filepath.Join(tmpDir, "box.json")
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Open(t.Context(), target); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), target) {
		t.Errorf("mock editor output = %q, want it to contain %q", string(got), target)
	}
}

func TestOpen_MissingEditor(t *testing.T) {
	t.Setenv("EDITOR", "non-existent-binary-12345")
	t.Setenv("VISUAL", "")

	if err := Open(t.Context(), "box.json"); err == nil {
		t.Error("expected error for non-existent editor, got nil")
	}
}
