package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors_SetKindAndMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		kind    Kind
		message string
	}{
		{"NotFound", NotFound("entity not found"), ErrNotFound, "entity not found"},
		{"NotFoundf", NotFoundf("entity %d not found", 7), ErrNotFound, "entity 7 not found"},
		{"Validation", Validation("cap exceeded"), ErrValidation, "cap exceeded"},
		{"Validationf", Validationf("sales share %s exceeds %s", "12", "10"), ErrValidation, "sales share 12 exceeds 10"},
		{"Conflict", Conflict("wager already settled"), ErrConflict, "wager already settled"},
		{"Conflictf", Conflictf("wager %s already settled", "T-1"), ErrConflict, "wager T-1 already settled"},
		{"InvalidOperation", InvalidOperation("same pot"), ErrInvalidOperation, "same pot"},
		{"InvalidOperationf", InvalidOperationf("unknown pot %q", "jackpot"), ErrInvalidOperation, `unknown pot "jackpot"`},
		{"InsufficientFunds", InsufficientFunds("reserve too low"), ErrInsufficientFunds, "reserve too low"},
		{"InsufficientFundsf", InsufficientFundsf("%s has %s", "reserve", "0"), ErrInsufficientFunds, "reserve has 0"},
		{"Internalf", Internalf("broken %s", "thing"), ErrInternal, "broken thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected Kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.message {
				t.Errorf("expected Message %q, got %q", tt.message, tt.err.Message)
			}
			if tt.err.Err != nil {
				t.Errorf("expected no wrapped error, got %v", tt.err.Err)
			}
		})
	}
}

func TestDataUnavailable_WrapsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := DataUnavailable(cause)

	if err.Kind != ErrDataUnavailable {
		t.Errorf("expected ErrDataUnavailable, got %v", err.Kind)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Error() != "data unavailable: database is locked" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestInternal(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause)

	if err.Kind != ErrInternal {
		t.Errorf("expected ErrInternal, got %v", err.Kind)
	}
	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("row missing")
	err := Wrap(cause, ErrNotFound, "wager lookup")

	if err.Error() != "wager lookup: row missing" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Kind != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err.Kind)
	}
}

func TestErrorMethod_WithoutWrappedError(t *testing.T) {
	err := InsufficientFunds("prize fund cannot cover payout")
	if err.Error() != "prize fund cannot cover payout" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("transfer: %w", InsufficientFunds("reserve"))

	if got := KindOf(wrapped); got != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", got)
	}
	if got := KindOf(errors.New("plain")); got != ErrInternal {
		t.Errorf("expected ErrInternal for non-app error, got %v", got)
	}
	if got := KindOf(nil); got != ErrInternal {
		t.Errorf("expected ErrInternal for nil, got %v", got)
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidOperation("non-positive amount"))

	if !Is(err, ErrInvalidOperation) {
		t.Error("expected Is to match ErrInvalidOperation through wrapping")
	}
	if Is(err, ErrInsufficientFunds) {
		t.Error("expected Is not to match a different kind")
	}
	if Is(nil, ErrInvalidOperation) {
		t.Error("expected Is(nil) to be false")
	}
	if Is(errors.New("plain"), ErrInternal) {
		t.Error("expected Is to be false for non-app errors")
	}
}

func TestErrorsAs_WrappedError(t *testing.T) {
	original := NotFound("booth 12")
	wrapped := fmt.Errorf("stats: %w", original)

	var appErr *Error
	if !errors.As(wrapped, &appErr) {
		t.Fatal("expected errors.As to find *Error")
	}
	if appErr != original {
		t.Error("expected the original *Error")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		ErrInternal:          "internal",
		ErrNotFound:          "not_found",
		ErrValidation:        "validation",
		ErrConflict:          "conflict",
		ErrInvalidOperation:  "invalid_operation",
		ErrInsufficientFunds: "insufficient_funds",
		ErrDataUnavailable:   "data_unavailable",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestErrorImplementsErrorInterface(t *testing.T) {
	var _ error = &Error{}
	var err error = Validation("x")
	if err.Error() != "x" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
