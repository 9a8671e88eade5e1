package domain

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// OnFail selects what the host does with a failing verdict. The set is
// closed; ParseOnFail rejects anything else.
type OnFail string

// Supported failure policies.
const (
	// OnFailException surfaces a *LengthError and emits no value.
	OnFailException OnFail = "exception"

	// OnFailFix substitutes the verdict's FixValue.
	OnFailFix OnFail = "fix"

	// OnFailFilter drops the offending field from the output.
	OnFailFilter OnFail = "filter"

	// OnFailRefrain drops the whole output.
	OnFailRefrain OnFail = "refrain"

	// OnFailNoop keeps the original value and only records the failure.
	OnFailNoop OnFail = "noop"
)

// OnFailPolicies lists every supported policy in declaration order.
func OnFailPolicies() []OnFail {
	return []OnFail{OnFailException, OnFailFix, OnFailFilter, OnFailRefrain, OnFailNoop}
}

// ParseOnFail resolves a policy name. Matching ignores case and
// surrounding whitespace. An empty name resolves to OnFailNoop.
func ParseOnFail(name string) (OnFail, error) {
	folded := cases.Fold().String(strings.TrimSpace(name))
	if folded == "" {
		return OnFailNoop, nil
	}
	for _, p := range OnFailPolicies() {
		if string(p) == folded {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown on_fail policy %q", ErrInvalidConfiguration, name)
}

// Valid reports whether p is one of the supported policies in canonical form.
func (p OnFail) Valid() bool { return slices.Contains(OnFailPolicies(), p) }

// String implements fmt.Stringer.
func (p OnFail) String() string { return string(p) }
