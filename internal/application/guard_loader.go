package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-validlength/internal/ports"
)

// GuardLoader provides YAML configuration parsing, validation, and caching
// for guards, transforming declarative field bindings into ready-to-run
// Guard instances.
// Use GuardLoader to load guards from files or readers while benefiting
// from SHA256-based caching and comprehensive validation.
type GuardLoader struct {
	// validator performs struct field validation and custom validation
	// rules for guard configurations and their nested components.
	validator *validator.Validate
	// registry builds validators from their stable identifier.
	registry ports.ValidatorRegistry
	// guardOpts are applied to every guard the loader builds.
	guardOpts []GuardOption
	// cache stores built guards indexed by SHA256 hash of the normalized
	// configuration. Guards are immutable, so sharing them is safe.
	cache map[string]*Guard
	// cacheMu provides thread-safe access to the cache map.
	cacheMu sync.RWMutex
	// sf prevents duplicate guard construction when multiple goroutines
	// request the same configuration simultaneously.
	sf singleflight.Group
}

// LoaderOption configures a GuardLoader.
type LoaderOption func(*GuardLoader)

// WithGuardOptions applies opts to every guard built by the loader.
func WithGuardOptions(opts ...GuardOption) LoaderOption {
	return func(gl *GuardLoader) {
		gl.guardOpts = append(gl.guardOpts, opts...)
	}
}

// NewGuardLoader creates a new guard loader with validation capabilities
// and an empty cache.
// NewGuardLoader returns an error if validator registration fails.
func NewGuardLoader(registry ports.ValidatorRegistry, opts ...LoaderOption) (*GuardLoader, error) {
	if registry == nil {
		return nil, fmt.Errorf("validator registry cannot be nil")
	}

	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	gl := &GuardLoader{
		validator: v,
		registry:  registry,
		cache:     make(map[string]*Guard),
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl, nil
}

// load is the common implementation for loading guards from byte data.
// Identical configurations, after normalization, share one Guard.
func (gl *GuardLoader) load(ctx context.Context, data []byte) (*Guard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, err := gl.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Hash the normalized config, not the raw bytes, so formatting
	// differences do not defeat the cache.
	hash, err := gl.calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	// The build is shared by every caller waiting on hash. Cancellation is
	// checked per caller before and after it, never inside.
	v, err, _ := gl.sf.Do(hash, func() (any, error) {
		if guard, ok := gl.getCachedGuard(hash); ok {
			return guard, nil
		}

		if err := gl.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		guard, err := gl.buildGuard(config)
		if err != nil {
			return nil, fmt.Errorf("failed to build guard: %w", err)
		}

		gl.cacheGuard(hash, guard)
		return guard, nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return v.(*Guard), nil
}

// LoadFromFile loads a guard from a YAML file.
// LoadFromFile returns an error if file reading, parsing, validation,
// or validator construction fails.
func (gl *GuardLoader) LoadFromFile(ctx context.Context, path string) (*Guard, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read file: %w", ports.NewConfigError(cleanPath, ports.ErrConfigNotFound))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return gl.load(ctx, data)
}

// LoadFromReader loads a guard from an io.Reader. It reads all data into
// memory and performs the same validation as LoadFromFile.
func (gl *GuardLoader) LoadFromReader(ctx context.Context, r io.Reader) (*Guard, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return gl.load(ctx, data)
}

// parseYAML decodes data into a GuardConfig. Decoding is strict: unknown
// keys are rejected so typos are not silently ignored.
func (gl *GuardLoader) parseYAML(data []byte) (*GuardConfig, error) {
	var config GuardConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

// validateConfig runs struct validation followed by the semantic checks
// that struct tags cannot express.
func (gl *GuardLoader) validateConfig(config *GuardConfig) error {
	if err := gl.validator.Struct(config); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}

	if err := gl.validateSemantics(config); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}

	return nil
}

// validateSemantics requires unique field names and unique validator IDs
// within a field, and checks each validator's declared parameters.
func (gl *GuardLoader) validateSemantics(config *GuardConfig) error {
	fields := make(map[string]struct{}, len(config.Fields))

	for _, field := range config.Fields {
		if _, exists := fields[field.Name]; exists {
			return fmt.Errorf("duplicate field %q", field.Name)
		}
		fields[field.Name] = struct{}{}

		ids := make(map[string]struct{}, len(field.Validators))
		for _, vc := range field.Validators {
			id := validatorID(field.Name, vc)
			if _, exists := ids[id]; exists {
				return fmt.Errorf("field %s: duplicate validator ID %q", field.Name, id)
			}
			ids[id] = struct{}{}

			key := parametersKey(field.Name, id)
			if vc.Parameters.Kind != 0 && vc.Parameters.Kind != yaml.MappingNode {
				return ports.NewConfigError(key, errors.New("parameters must be a mapping"))
			}
			if err := ValidateValidatorParameters(vc.Type, vc.Parameters); err != nil {
				return ports.NewConfigError(key, fmt.Errorf("parameter validation failed: %w", err))
			}
		}
	}

	return nil
}

// buildGuard instantiates every declared validator through the registry
// and binds them to their fields.
func (gl *GuardLoader) buildGuard(config *GuardConfig) (*Guard, error) {
	bindings := make([]FieldBinding, 0, len(config.Fields))

	for _, field := range config.Fields {
		binding := FieldBinding{Name: field.Name, Shape: field.Shape}
		for _, vc := range field.Validators {
			v, err := gl.createValidator(field.Name, vc)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			binding.Validators = append(binding.Validators, v)
		}
		bindings = append(bindings, binding)
	}

	return NewGuard(config.Name, bindings, gl.guardOpts...)
}

// createValidator decodes the declared parameters and delegates to the
// registry.
func (gl *GuardLoader) createValidator(field string, config ValidatorConfig) (ports.Validator, error) {
	id := validatorID(field, config)

	var params map[string]any
	if config.Parameters.Kind != 0 {
		if err := config.Parameters.Decode(&params); err != nil {
			return nil, ports.NewConfigError(parametersKey(field, id), fmt.Errorf("failed to decode parameters: %w", err))
		}
	}

	v, err := gl.registry.CreateValidator(config.Type, id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}
	return v, nil
}

// parametersKey is the config path of a validator's parameters.
func parametersKey(field, id string) string {
	return "fields." + field + ".validators." + id + ".parameters"
}

// validatorID returns the declared ID or derives "<field>.<type>".
func validatorID(field string, config ValidatorConfig) string {
	if config.ID != "" {
		return config.ID
	}
	return field + "." + config.Type
}

// calculateConfigHash computes the SHA256 hash of a normalized GuardConfig
// so semantically identical configurations share a cache entry regardless
// of whitespace or comments.
func (gl *GuardLoader) calculateConfigHash(config *GuardConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

// getCachedGuard returns the guard cached under hash, if any.
func (gl *GuardLoader) getCachedGuard(hash string) (*Guard, bool) {
	gl.cacheMu.RLock()
	defer gl.cacheMu.RUnlock()

	guard, ok := gl.cache[hash]
	return guard, ok
}

// cacheGuard stores guard under hash, overwriting any existing entry.
func (gl *GuardLoader) cacheGuard(hash string, guard *Guard) {
	gl.cacheMu.Lock()
	defer gl.cacheMu.Unlock()

	gl.cache[hash] = guard
}

// ClearCache removes all cached guards, forcing subsequent loads to
// rebuild from source.
func (gl *GuardLoader) ClearCache() {
	gl.cacheMu.Lock()
	defer gl.cacheMu.Unlock()

	gl.cache = make(map[string]*Guard)
}

// registerCustomValidators registers the semver tag and the guard-specific
// validation rules.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}

	if err := RegisterGuardValidators(v); err != nil {
		return fmt.Errorf("failed to register guard validators: %w", err)
	}

	return nil
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3 && major >= 0 && minor >= 0 && patch >= 0
}
