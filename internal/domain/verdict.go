package domain

import (
	"encoding/json"
	"fmt"
)

// Violation describes where a length falls relative to Bounds.
type Violation string

// Possible placements of a length relative to Bounds.
const (
	// WithinBounds means min <= length <= max.
	WithinBounds Violation = "within_bounds"

	// TooShort means length < min.
	TooShort Violation = "too_short"

	// TooLong means length > max.
	TooLong Violation = "too_long"
)

// Outcome is the pass/fail result carried by a Verdict.
type Outcome string

// Verdict outcomes.
const (
	// Pass means the value satisfied the validator.
	Pass Outcome = "pass"

	// Fail means the value violated the validator. A fix value is attached.
	Fail Outcome = "fail"
)

// Verdict is the result of a single validator call.
// A passing verdict carries only the observed length. A failing verdict
// additionally carries the violation and a freshly built FixValue of the
// same shape as the input; whether FixValue is used is the caller's
// decision, driven by the configured OnFail policy.
type Verdict struct {
	// Outcome is Pass or Fail.
	Outcome Outcome `json:"outcome"`

	// Violation is WithinBounds for passing verdicts.
	Violation Violation `json:"violation"`

	// Length is the measured length of the input value.
	Length int `json:"length"`

	// Bounds is the window the value was checked against.
	Bounds Bounds `json:"bounds"`

	// FixValue is the corrected value. It is nil for passing verdicts.
	// It is encoded as "fix_value" through Value.Raw.
	FixValue Value `json:"-"`
}

// MarshalJSON encodes the verdict with FixValue as a plain string or
// string array.
func (v Verdict) MarshalJSON() ([]byte, error) {
	type plain Verdict
	out := struct {
		plain
		FixValue any `json:"fix_value,omitempty"`
	}{plain: plain(v)}
	if v.FixValue != nil {
		out.FixValue = v.FixValue.Raw()
	}
	return json.Marshal(out)
}

// PassVerdict builds a passing verdict.
func PassVerdict(length int, b Bounds) Verdict {
	return Verdict{Outcome: Pass, Violation: WithinBounds, Length: length, Bounds: b}
}

// FailVerdict builds a failing verdict.
func FailVerdict(v Violation, length int, b Bounds, fix Value) Verdict {
	return Verdict{Outcome: Fail, Violation: v, Length: length, Bounds: b, FixValue: fix}
}

// Passed reports whether the verdict is a pass.
func (v Verdict) Passed() bool { return v.Outcome == Pass }

// Reason returns a short human-readable explanation of the verdict.
func (v Verdict) Reason() string {
	switch v.Violation {
	case TooShort:
		return fmt.Sprintf("value has length %d, below minimum %d", v.Length, v.Bounds.Min)
	case TooLong:
		return fmt.Sprintf("value has length %d, above maximum %d", v.Length, v.Bounds.Max)
	default:
		return fmt.Sprintf("value has length %d within %s", v.Length, v.Bounds)
	}
}

// Err converts a failing verdict into a *LengthError for the named field.
// It returns nil for passing verdicts.
func (v Verdict) Err(field string) error {
	if v.Passed() {
		return nil
	}
	return &LengthError{
		Field:     field,
		Violation: v.Violation,
		Length:    v.Length,
		Bounds:    v.Bounds,
		FixValue:  v.FixValue,
	}
}
