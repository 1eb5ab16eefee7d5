// Package editor opens resource files in the user's editor.
package editor

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/thoreinstein/resindex/internal/errors"
)

// Command returns the command that edits path. The editor setting may carry
// arguments, as in EDITOR="code --wait".
func Command(ctx context.Context, path string) *exec.Cmd {
	fields := strings.Fields(detectEditor())
	args := append(fields[1:], path)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Open edits path and waits for the editor to exit.
func Open(ctx context.Context, path string) error {
	cmd := Command(ctx, path)
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", cmd.Args[0])
	}
	return nil
}

// detectEditor picks $EDITOR, then $VISUAL, then a platform default.
// Blank values count as unset.
func detectEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}

	if runtime.GOOS == "windows" {
		return "notepad"
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
