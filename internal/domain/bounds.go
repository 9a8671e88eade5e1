package domain

import "fmt"

// Bounds is the inclusive length window [Min, Max] a value must satisfy.
// Bounds are fixed when a validator is built and never change afterwards.
type Bounds struct {
	// Min is the smallest accepted length.
	Min int `json:"min" yaml:"min"`

	// Max is the largest accepted length.
	Max int `json:"max" yaml:"max"`
}

// NewBounds returns Bounds after checking 0 <= min <= max.
// Violations wrap ErrInvalidConfiguration.
func NewBounds(min, max int) (Bounds, error) {
	b := Bounds{Min: min, Max: max}
	if err := b.Check(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// Check reports whether b is a well-formed window.
func (b Bounds) Check() error {
	if b.Min < 0 {
		return fmt.Errorf("%w: min must be non-negative, got %d", ErrInvalidConfiguration, b.Min)
	}
	if b.Max < b.Min {
		return fmt.Errorf("%w: max (%d) must be >= min (%d)", ErrInvalidConfiguration, b.Max, b.Min)
	}
	return nil
}

// Classify places n relative to the window.
func (b Bounds) Classify(n int) Violation {
	switch {
	case n < b.Min:
		return TooShort
	case n > b.Max:
		return TooLong
	default:
		return WithinBounds
	}
}

// Contains reports whether n lies in the window.
func (b Bounds) Contains(n int) bool { return b.Classify(n) == WithinBounds }

// String implements fmt.Stringer.
func (b Bounds) String() string { return fmt.Sprintf("[%d, %d]", b.Min, b.Max) }
