package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "NoCause",
			err:  New(ErrCodeInvalidOptions, "direction must be TB or LR, got %q", "XX"),
			want: `INVALID_OPTIONS: direction must be TB or LR, got "XX"`,
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeFileNotFound, fmt.Errorf("no such file"), "read %s", "d.json"),
			want: "FILE_NOT_FOUND: read d.json: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeDanglingEdge, "edge e1 references unknown node")
	if !Is(err, ErrCodeDanglingEdge) {
		t.Error("Is(err, ErrCodeDanglingEdge) = false, want true")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is(err, ErrCodeInternal) = true, want false")
	}
	if Is(stderrors.New("plain"), ErrCodeDanglingEdge) {
		t.Error("Is(plain, code) = true, want false")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "layout failed")
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not match cause via errors.Is")
	}
	if got := GetCode(err); got != ErrCodeInternal {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInternal)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "node %q is missing", "a")
	if got := UserMessage(err); got != `node "a" is missing` {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
