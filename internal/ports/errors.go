package ports

import (
	"errors"
	"fmt"
	"strings"
)

// Common registry and configuration errors.
var (
	// ErrUnknownValidator indicates that no factory is registered under the
	// requested identifier.
	ErrUnknownValidator = errors.New("unknown validator")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// RegistryError represents a failed registry lookup. Suggestions holds
// registered identifiers close to the requested one.
type RegistryError struct {
	// ValidatorType is the identifier that was requested.
	ValidatorType string

	// Suggestions lists near matches, closest first.
	Suggestions []string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for RegistryError.
func (e *RegistryError) Error() string {
	msg := fmt.Sprintf("registry error: type=%s, err=%v", e.ValidatorType, e.Err)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *RegistryError) Unwrap() error { return e.Err }

// NewRegistryError creates a new RegistryError with the given details.
func NewRegistryError(validatorType string, suggestions []string, err error) *RegistryError {
	return &RegistryError{
		ValidatorType: validatorType,
		Suggestions:   suggestions,
		Err:           err,
	}
}

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
