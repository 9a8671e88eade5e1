package validators

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-validlength/internal/domain"
	"github.com/ahrav/go-validlength/internal/ports"
)

var _ ports.Validator = (*LengthValidator)(nil)

// ValidLengthType is the stable identifier hosts use to look up the
// length validator in a registry.
const ValidLengthType = "valid-length"

// LengthValidator checks that a string or a sequence of strings has a
// length inside a fixed [Min, Max] window. Strings are measured in code
// points, sequences in elements.
//
// When a value falls outside the window the validator fails and builds a
// fix value of the same shape:
//   - too short: the last unit is repeated until the value reaches Min.
//     An empty string is filled with domain.TextPlaceholder and an empty
//     sequence with domain.ListPlaceholder.
//   - too long: the value is cut down to its first Max units. No attempt is
//     made to respect word boundaries.
//
// Concurrency: LengthValidator holds only immutable configuration and is
// safe for concurrent use.
type LengthValidator struct {
	// name is the unique identifier for this validator instance.
	name string
	// config contains the validated configuration parameters.
	config LengthConfig
	// bounds is derived from config once at construction.
	bounds domain.Bounds
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// LengthConfig holds the construction parameters declared next to a field.
// Configuration is immutable after validator creation.
type LengthConfig struct {
	// Min is the smallest accepted length. Must be non-negative.
	Min int `yaml:"min" json:"min" validate:"min=0"`

	// Max is the largest accepted length. Must be >= Min.
	Max int `yaml:"max" json:"max" validate:"gtefield=Min"`

	// OnFail selects what the host does with a failing verdict.
	// Names are matched case-insensitively at construction.
	OnFail domain.OnFail `yaml:"on_fail" json:"on_fail" validate:"required,onfail"`
}

// DefaultLengthConfig returns a config that accepts any length and takes
// no action on failure. Hosts overlay their declared parameters on top.
func DefaultLengthConfig() LengthConfig {
	return LengthConfig{
		Min:    0,
		Max:    math.MaxInt,
		OnFail: domain.OnFailNoop,
	}
}

// NewLengthValidator creates a LengthValidator with validated configuration.
//
// Returns ErrEmptyValidatorName if name is empty, or an error wrapping
// domain.ErrInvalidConfiguration if the bounds or policy are invalid.
func NewLengthValidator(name string, config LengthConfig) (*LengthValidator, error) {
	if name == "" {
		return nil, ErrEmptyValidatorName
	}

	policy, err := domain.ParseOnFail(string(config.OnFail))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	config.OnFail = policy

	if err := validateConfig("LengthConfig", config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	bounds, err := domain.NewBounds(config.Min, config.Max)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &LengthValidator{
		name:   name,
		config: config,
		bounds: bounds,
		tracer: otel.Tracer("valid-length-validator"),
	}, nil
}

// Name returns the unique identifier for this validator instance.
func (lv *LengthValidator) Name() string { return lv.name }

// OnFail returns the configured failure policy.
func (lv *LengthValidator) OnFail() domain.OnFail { return lv.config.OnFail }

// Bounds returns the validator's length window.
func (lv *LengthValidator) Bounds() domain.Bounds { return lv.bounds }

// Config returns a copy of the validator's configuration.
func (lv *LengthValidator) Config() LengthConfig { return lv.config }

// Validate checks value against the configured bounds.
//
// The value must be a domain.Text or a domain.List; anything else returns
// an error wrapping domain.ErrUnsupportedShape. Hosts are expected to coerce
// parsed output with domain.AsValue first. The metadata is not inspected.
func (lv *LengthValidator) Validate(
	ctx context.Context,
	value domain.Value,
	_ domain.Metadata,
) (domain.Verdict, error) {
	_, span := lv.tracer.Start(ctx, "LengthValidator.Validate",
		trace.WithAttributes(
			attribute.String("validator.type", ValidLengthType),
			attribute.String("validator.id", lv.name),
			attribute.Int("config.min", lv.bounds.Min),
			attribute.Int("config.max", lv.bounds.Max),
			attribute.String("config.on_fail", string(lv.config.OnFail)),
		),
	)
	defer span.End()

	var verdict domain.Verdict
	switch v := value.(type) {
	case domain.Text:
		verdict = lv.check(v)
	case domain.List:
		verdict = lv.check(v)
	default:
		err := fmt.Errorf("validator %s: %w: %T", lv.name, domain.ErrUnsupportedShape, value)
		span.RecordError(err)
		return domain.Verdict{}, err
	}

	span.SetAttributes(
		attribute.String("value.shape", string(value.Shape())),
		attribute.Int("value.length", verdict.Length),
		attribute.String("verdict.outcome", string(verdict.Outcome)),
		attribute.String("verdict.violation", string(verdict.Violation)),
	)
	return verdict, nil
}

// ValidateText is the typed entry point for string values.
func (lv *LengthValidator) ValidateText(s string) domain.Verdict {
	return lv.check(domain.Text(s))
}

// ValidateList is the typed entry point for sequences of strings.
// The input slice is never modified.
func (lv *LengthValidator) ValidateList(items []string) domain.Verdict {
	return lv.check(domain.List(items))
}

// check applies the padding/truncation rule shared by both shapes.
func (lv *LengthValidator) check(value domain.Value) domain.Verdict {
	length := value.Len()

	switch lv.bounds.Classify(length) {
	case domain.TooShort:
		return domain.FailVerdict(domain.TooShort, length, lv.bounds, value.Pad(lv.bounds.Min))
	case domain.TooLong:
		return domain.FailVerdict(domain.TooLong, length, lv.bounds, value.Truncate(lv.bounds.Max))
	default:
		return domain.PassVerdict(length, lv.bounds)
	}
}

// Check verifies the validator is properly configured and ready for use.
func (lv *LengthValidator) Check() error {
	if err := validateConfig("LengthConfig", lv.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return lv.bounds.Check()
}

// NewLengthFromConfig creates a LengthValidator from a parameter map.
// This is the boundary adapter for YAML/JSON configuration and has the
// ports.ValidatorFactory signature.
//
// Supported keys: "min" (int), "max" (int), "on_fail" (string).
// Missing keys keep the DefaultLengthConfig values.
func NewLengthFromConfig(id string, params map[string]any) (ports.Validator, error) {
	data, err := yaml.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	// Start with defaults, then overlay user config.
	cfg := DefaultLengthConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	lv, err := NewLengthValidator(id, cfg)
	if err != nil {
		return nil, err
	}
	return lv, nil
}
