// Package ports defines the core interfaces that form the contract between
// the host-side application layer and the validator implementations.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ahrav/go-validlength/internal/domain"
)

// Validator checks one already-coerced field value.
// Validators must be stateless and safe for concurrent use: the host may
// call Validate from several goroutines on the same instance.
type Validator interface {
	// Name returns the unique identifier of this validator instance.
	Name() string

	// Validate checks value and returns a Verdict. A failing verdict carries
	// a fix value; the validator never decides what happens next, that is
	// the host's job via OnFail. An error is returned only when value has a
	// shape the validator does not support.
	//
	// The metadata parameter is opaque host context and is passed through
	// untouched.
	Validate(ctx context.Context, value domain.Value, metadata domain.Metadata) (domain.Verdict, error)

	// OnFail returns the failure policy the validator was configured with.
	OnFail() domain.OnFail

	// Check verifies the validator is properly configured.
	Check() error
}

// ValidatorFactory builds a Validator from a generic parameter map, as
// declared alongside a field in host configuration.
type ValidatorFactory func(id string, params map[string]any) (Validator, error)

// ValidatorRegistry resolves stable validator identifiers to factories.
type ValidatorRegistry interface {
	// CreateValidator builds a validator registered under validatorType.
	CreateValidator(validatorType, id string, params map[string]any) (Validator, error)

	// RegisterValidatorFactory adds or replaces a factory.
	RegisterValidatorFactory(validatorType string, factory ValidatorFactory) error

	// GetSupportedTypes returns every registered identifier.
	GetSupportedTypes() []string
}
