package apierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(New(KindNotFound, "missing")); got != KindNotFound {
		t.Fatalf("want KindNotFound, got %v", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Fatalf("plain error: want KindUnknown, got %v", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Fatalf("nil: want KindUnknown, got %v", got)
	}
}

func TestKindOfSeesThroughWrapping(t *testing.T) {
	inner := New(KindConcurrentModification, "version collision")
	outer := fmt.Errorf("saving judgment: %w", inner)

	if !IsKind(outer, KindConcurrentModification) {
		t.Fatalf("kind lost through fmt.Errorf wrapping: %v", outer)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindStorage, "saving case", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable via errors.Is")
	}
	msg := err.Error()
	if msg != "storage: saving case: connection refused" {
		t.Fatalf("message: got=%q", msg)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(KindValidation, "side must be A or B"), "validation: side must be A or B"},
		{Newf(KindNotFound, "case %s not found", "abc"), "not_found: case abc not found"},
		{&Error{Kind: KindGenerationFailed}, "generation_failed"},
		{&Error{Kind: KindUnknown, Err: errors.New("boom")}, "unknown: boom"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Fatalf("want=%q got=%q", tt.want, got)
		}
	}
}

func TestKindString(t *testing.T) {
	pairs := map[Kind]string{
		KindUnknown:                "unknown",
		KindValidation:             "validation",
		KindNotFound:               "not_found",
		KindGenerationFailed:       "generation_failed",
		KindConcurrentModification: "concurrent_modification",
		KindStorage:                "storage",
	}
	for k, want := range pairs {
		if got := k.String(); got != want {
			t.Fatalf("kind %d: want=%q got=%q", int(k), want, got)
		}
	}
}
