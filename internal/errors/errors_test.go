package errors

import (
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "resource not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(Wrap(ErrInvalidConfig, "loading config"), ExitUser),
			want: "loading config: invalid configuration",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitSystem),
			want: "exit code 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_UnwrapAndAs(t *testing.T) {
	err := fmt.Errorf("command failed: %w", NewUserError(Wrapf(ErrUnknownType, "type %q", "bogus"), "try --help"))

	if !Is(err, ErrUnknownType) {
		t.Error("Is() should find ErrUnknownType through the chain")
	}

	var exitErr *ExitError
	if !As(err, &exitErr) {
		t.Fatal("As() should find ExitError")
	}
	if exitErr.Code != ExitUser {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitUser)
	}
	if exitErr.Suggestion != "try --help" {
		t.Errorf("Suggestion = %q, want %q", exitErr.Suggestion, "try --help")
	}
}

func TestConstructors(t *testing.T) {
	if got := NewSystemError(ErrNotFound, "check permissions").Code; got != ExitSystem {
		t.Errorf("NewSystemError().Code = %d, want %d", got, ExitSystem)
	}
	cfgErr := NewConfigError(ErrInvalidConfig)
	if cfgErr.Code != ExitUser {
		t.Errorf("NewConfigError().Code = %d, want %d", cfgErr.Code, ExitUser)
	}
	if cfgErr.Suggestion == "" {
		t.Error("NewConfigError() should carry a suggestion")
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "context"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := Join(nil, nil); err != nil {
		t.Errorf("Join(nil, nil) = %v, want nil", err)
	}
}
