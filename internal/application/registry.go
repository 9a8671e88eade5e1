package application

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/ahrav/go-validlength/infrastructure/validators"
	"github.com/ahrav/go-validlength/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.ValidatorRegistry = (*DefaultValidatorRegistry)(nil)

// LegacyValidLengthType is an alias of validators.ValidLengthType accepted
// for configs written against the hub-style identifier.
const LegacyValidLengthType = "guardrails/valid_length"

// maxSuggestionDistance bounds how different a registered identifier may be
// from an unknown one and still be offered as a suggestion.
const maxSuggestionDistance = 3

// DefaultValidatorRegistry implements the ValidatorRegistry interface,
// providing a factory for creating validators based on a stable identifier
// and a parameter map. It supports dynamic registration of validator
// factories at runtime.
type DefaultValidatorRegistry struct {
	// factories maps validator identifiers to their factory functions.
	factories map[string]ports.ValidatorFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultValidatorRegistry creates a new registry with the built-in
// validators pre-registered.
func NewDefaultValidatorRegistry() *DefaultValidatorRegistry {
	registry := &DefaultValidatorRegistry{
		factories: make(map[string]ports.ValidatorFactory),
	}

	registry.registerBuiltinFactories()

	return registry
}

// registerBuiltinFactories registers the validators shipped with this module.
func (r *DefaultValidatorRegistry) registerBuiltinFactories() {
	r.factories[validators.ValidLengthType] = validators.NewLengthFromConfig
	r.factories[LegacyValidLengthType] = validators.NewLengthFromConfig // Alias for hub-style configs
}

// CreateValidator creates a new validator instance based on the provided
// type, identifier, and parameters. Unknown types return a
// *ports.RegistryError wrapping ports.ErrUnknownValidator, with near
// matches attached as suggestions.
func (r *DefaultValidatorRegistry) CreateValidator(
	validatorType string,
	id string,
	params map[string]any,
) (ports.Validator, error) {
	r.mu.RLock()
	factory, exists := r.factories[validatorType]
	r.mu.RUnlock()

	if !exists {
		return nil, ports.NewRegistryError(validatorType, r.suggest(validatorType), ports.ErrUnknownValidator)
	}

	if id == "" {
		return nil, fmt.Errorf("validator ID cannot be empty")
	}

	if params == nil {
		params = make(map[string]any)
	}

	v, err := factory(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create validator %s of type %s: %w", id, validatorType, err)
	}

	return v, nil
}

// RegisterValidatorFactory registers a new factory function for a validator
// identifier, replacing any existing registration.
func (r *DefaultValidatorRegistry) RegisterValidatorFactory(
	validatorType string,
	factory ports.ValidatorFactory,
) error {
	if validatorType == "" {
		return fmt.Errorf("validator type cannot be empty")
	}

	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[validatorType] = factory
	return nil
}

// GetSupportedTypes returns all registered identifiers in sorted order.
func (r *DefaultValidatorRegistry) GetSupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for validatorType := range r.factories {
		types = append(types, validatorType)
	}
	slices.Sort(types)

	return types
}

// suggest returns registered identifiers within maxSuggestionDistance edits
// of name, closest first.
func (r *DefaultValidatorRegistry) suggest(name string) []string {
	type candidate struct {
		name     string
		distance int
	}

	var candidates []candidate
	for _, known := range r.GetSupportedTypes() {
		if d := levenshtein.ComputeDistance(name, known); d <= maxSuggestionDistance {
			candidates = append(candidates, candidate{name: known, distance: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
