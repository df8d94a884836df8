package types

import (
	"errors"
	"strings"
	"testing"
)

func TestNewError_TruncatesMessage(t *testing.T) {
	long := strings.Repeat("x", MaxErrorMessageLen+100)
	e := NewError(CodeGeneral, "%s", long)
	if len(e.Message) != MaxErrorMessageLen {
		t.Errorf("len(Message) = %d, want %d", len(e.Message), MaxErrorMessageLen)
	}
}

func TestAsError(t *testing.T) {
	orig := NewError(CodeNotFound, "gone")
	if got := AsError(orig); got != orig {
		t.Error("AsError rewrapped an *Error")
	}

	foreign := errors.New("disk on fire")
	got := AsError(foreign)
	if got.Code != CodeGeneral {
		t.Errorf("Code = %d, want %d", got.Code, CodeGeneral)
	}
	if got.Message != "disk on fire" {
		t.Errorf("Message = %q, want %q", got.Message, "disk on fire")
	}

	if AsError(nil) != nil {
		t.Error("AsError(nil) != nil")
	}
}

func TestAsError_Wrapped(t *testing.T) {
	inner := NewError(CodeAuth, "rejected")
	wrapped := errors.Join(errors.New("outer"), inner)
	if got := AsError(wrapped); got.Code != CodeAuth {
		t.Errorf("Code = %d, want %d", got.Code, CodeAuth)
	}
}
