package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLengthError(t *testing.T) {
	tests := []struct {
		name    string
		err     *LengthError
		wantMsg string
	}{
		{
			name: "too long with field",
			err: &LengthError{
				Field:     "test_val",
				Violation: TooLong,
				Length:    8,
				Bounds:    Bounds{Min: 1, Max: 5},
				FixValue:  Text("tests"),
			},
			wantMsg: "field test_val: length out of bounds: violation=too_long, length=8, bounds=[1, 5]",
		},
		{
			name: "too short without field",
			err: &LengthError{
				Violation: TooShort,
				Length:    2,
				Bounds:    Bounds{Min: 3, Max: 6},
			},
			wantMsg: "length out of bounds: violation=too_short, length=2, bounds=[3, 6]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())

			wrapped := fmt.Errorf("guard failed: %w", tt.err)
			assert.True(t, errors.Is(wrapped, ErrLengthOutOfBounds), "Should match sentinel through wrapping")

			var target *LengthError
			assert.True(t, errors.As(wrapped, &target))
			assert.Equal(t, tt.err.Violation, target.Violation)
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("LengthConfig")
		err.AddError("max must be >= min")

		assert.Equal(t, "validation error for LengthConfig: max must be >= min", err.Error())
		assert.True(t, err.HasErrors(), "Should have errors")
		assert.Len(t, err.Errors, 1, "Should have one error")
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("GuardConfig")
		err.AddError("missing fields")
		err.AddError("duplicate field")

		assert.Equal(t, "validation errors for GuardConfig: [missing fields duplicate field]", err.Error())
		assert.Len(t, err.Errors, 2, "Should have two errors")
	})

	t.Run("no errors", func(t *testing.T) {
		err := NewValidationError("Empty")
		assert.False(t, err.HasErrors(), "Should not have errors")
	})

	t.Run("unwraps to invalid configuration", func(t *testing.T) {
		err := NewValidationError("Bounds")
		err.AddError("negative min")
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	})
}
