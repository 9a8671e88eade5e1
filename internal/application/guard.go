package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-validlength/internal/domain"
	"github.com/ahrav/go-validlength/internal/logging"
	"github.com/ahrav/go-validlength/internal/ports"
)

// DefaultGuardMaxConcurrency bounds how many fields a guard validates at once
// when no limit is configured.
const DefaultGuardMaxConcurrency = 4

// ErrEmptyFieldName is returned when binding validators to an unnamed field.
var ErrEmptyFieldName = errors.New("field name cannot be empty")

// ErrDuplicateField is returned when a field is bound twice.
var ErrDuplicateField = errors.New("field already bound")

// FieldBinding associates an ordered list of validators with one output field.
type FieldBinding struct {
	// Name is the key of the field in the decoded output.
	Name string
	// Shape optionally pins the field to a single value shape.
	Shape domain.Shape
	// Validators run in order; a fix produced by one feeds the next.
	Validators []ports.Validator
}

// FieldResult records what one validator decided for one field and what
// the guard did about it.
type FieldResult struct {
	// Field is the output field name.
	Field string `json:"field"`
	// Validator is the validator instance name.
	Validator string `json:"validator"`
	// Verdict is the validator's decision.
	Verdict domain.Verdict `json:"verdict"`
	// Action is the policy enacted on failure; empty for passing verdicts.
	Action domain.OnFail `json:"action,omitempty"`
}

// Outcome is the result of running a guard over one decoded output.
type Outcome struct {
	// ValidationPassed is true when every verdict passed or every failure
	// was corrected by a fix. Failures handled with noop, filter or
	// refrain leave it false.
	ValidationPassed bool
	// RawOutput is the output as received.
	RawOutput map[string]any
	// ValidatedOutput is the output after policies were applied. It is nil
	// when a refrain policy fired.
	ValidatedOutput map[string]any
	// Results lists every verdict in field binding order.
	Results []FieldResult
}

// Failures returns the results whose verdict failed.
func (o *Outcome) Failures() []FieldResult {
	var out []FieldResult
	for _, r := range o.Results {
		if !r.Verdict.Passed() {
			out = append(out, r)
		}
	}
	return out
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithLogger sets the structured logger. The default discards records.
func WithLogger(logger *slog.Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector. The default discards measurements.
func WithMetrics(metrics ports.MetricsCollector) GuardOption {
	return func(g *Guard) {
		if metrics != nil {
			g.metrics = metrics
		}
	}
}

// WithMaxConcurrency bounds how many fields are validated concurrently.
// Values below one fall back to DefaultGuardMaxConcurrency.
func WithMaxConcurrency(n int) GuardOption {
	return func(g *Guard) {
		if n > 0 {
			g.maxConcurrency = n
		}
	}
}

// Guard is the host side of the validator contract. It runs the validators
// bound to each field of an already decoded output and enacts each
// validator's failure policy:
//   - exception: Validate returns a *domain.LengthError and no outcome.
//   - fix: the verdict's fix value replaces the field value.
//   - filter: the field is dropped from the validated output.
//   - refrain: the validated output is dropped entirely.
//   - noop: the original value is kept and the failure recorded.
//
// A Guard is immutable once built and safe for concurrent use.
type Guard struct {
	name           string
	fields         []FieldBinding
	logger         *slog.Logger
	metrics        ports.MetricsCollector
	tracer         trace.Tracer
	maxConcurrency int
}

// NewGuard creates a guard with the given field bindings.
func NewGuard(name string, fields []FieldBinding, opts ...GuardOption) (*Guard, error) {
	if name == "" {
		return nil, fmt.Errorf("guard name cannot be empty")
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, ErrEmptyFieldName
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}
		seen[f.Name] = struct{}{}
		if len(f.Validators) == 0 {
			return nil, fmt.Errorf("field %s has no validators", f.Name)
		}
		for i, v := range f.Validators {
			if v == nil {
				return nil, fmt.Errorf("field %s validator %d is nil", f.Name, i)
			}
			if err := v.Check(); err != nil {
				return nil, fmt.Errorf("field %s validator %s: %w", f.Name, v.Name(), err)
			}
		}
	}

	g := &Guard{
		name:           name,
		fields:         append([]FieldBinding(nil), fields...),
		logger:         logging.Discard(),
		metrics:        ports.NoopMetrics{},
		tracer:         otel.Tracer("guard"),
		maxConcurrency: DefaultGuardMaxConcurrency,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Name returns the guard name.
func (g *Guard) Name() string { return g.name }

// Fields returns the names of the bound fields in binding order.
func (g *Guard) Fields() []string {
	names := make([]string, len(g.fields))
	for i, f := range g.fields {
		names[i] = f.Name
	}
	return names
}

// Validate runs the guard over output with empty host metadata.
func (g *Guard) Validate(ctx context.Context, output map[string]any) (*Outcome, error) {
	return g.ValidateWithMetadata(ctx, output, domain.NewMetadata())
}

// fieldRun is the per-field result assembled by a worker.
type fieldRun struct {
	results  []FieldResult
	value    any
	present  bool
	filtered bool
	refrain  bool
	clean    bool
}

// ValidateWithMetadata runs every bound validator over output.
// Fields absent from output are skipped. Field values must be strings or
// sequences of strings; anything else returns an error wrapping
// domain.ErrUnsupportedShape. The input map is never modified.
func (g *Guard) ValidateWithMetadata(
	ctx context.Context,
	output map[string]any,
	md domain.Metadata,
) (*Outcome, error) {
	ctx, span := g.tracer.Start(ctx, "Guard.Validate",
		trace.WithAttributes(
			attribute.String("guard.name", g.name),
			attribute.Int("guard.fields", len(g.fields)),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		g.metrics.RecordLatency("guard_validate", time.Since(start), map[string]string{"validator": g.name})
	}()

	md = domain.With(md, domain.KeyGuardName, g.name)
	runs := make([]fieldRun, len(g.fields))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.maxConcurrency)
	for i, field := range g.fields {
		raw, present := output[field.Name]
		if !present {
			continue
		}
		eg.Go(func() error {
			run, err := g.validateField(egCtx, field, raw, md)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "guard validation failed")
		g.logger.WarnContext(ctx, "guard validation failed", logging.Guard(g.name), logging.Error(err))
		return nil, fmt.Errorf("guard %s: %w", g.name, err)
	}

	outcome := &Outcome{
		ValidationPassed: true,
		RawOutput:        output,
		ValidatedOutput:  maps.Clone(output),
	}
	if outcome.ValidatedOutput == nil {
		outcome.ValidatedOutput = make(map[string]any)
	}

	refrain := false
	for i, field := range g.fields {
		run := runs[i]
		if !run.present {
			continue
		}
		outcome.Results = append(outcome.Results, run.results...)
		if !run.clean {
			outcome.ValidationPassed = false
		}
		switch {
		case run.refrain:
			refrain = true
		case run.filtered:
			delete(outcome.ValidatedOutput, field.Name)
		default:
			outcome.ValidatedOutput[field.Name] = run.value
		}
	}
	if refrain {
		outcome.ValidatedOutput = nil
	}

	span.SetAttributes(
		attribute.Bool("guard.validation_passed", outcome.ValidationPassed),
		attribute.Int("guard.failures", len(outcome.Failures())),
	)
	g.logger.DebugContext(ctx, "guard validation finished",
		logging.Guard(g.name),
		slog.Bool("validation_passed", outcome.ValidationPassed),
		slog.Int("results", len(outcome.Results)),
	)

	return outcome, nil
}

// validateField runs the validator chain of one field.
func (g *Guard) validateField(
	ctx context.Context,
	field FieldBinding,
	raw any,
	md domain.Metadata,
) (fieldRun, error) {
	if err := ctx.Err(); err != nil {
		return fieldRun{}, err
	}

	value, err := domain.AsValue(raw)
	if err != nil {
		return fieldRun{}, fmt.Errorf("field %s: %w", field.Name, err)
	}
	if field.Shape != "" && value.Shape() != field.Shape {
		return fieldRun{}, fmt.Errorf("field %s: %w: got %s, want %s",
			field.Name, domain.ErrUnsupportedShape, value.Shape(), field.Shape)
	}

	run := fieldRun{present: true, clean: true, value: raw}
	md = domain.With(md, domain.KeyField, field.Name)
	fixed := false

	for _, v := range field.Validators {
		verdict, err := v.Validate(ctx, value, domain.With(md, domain.KeyValidatorID, v.Name()))
		if err != nil {
			return fieldRun{}, fmt.Errorf("field %s: %w", field.Name, err)
		}
		g.recordVerdict(ctx, v, value, verdict)

		result := FieldResult{Field: field.Name, Validator: v.Name(), Verdict: verdict}
		if verdict.Passed() {
			run.results = append(run.results, result)
			continue
		}

		policy := v.OnFail()
		result.Action = policy
		run.results = append(run.results, result)
		g.metrics.RecordCounter(ports.MetricPolicyActions, 1, map[string]string{
			"validator": v.Name(),
			"field":     field.Name,
			"policy":    string(policy),
		})
		g.logger.WarnContext(ctx, "validator failed",
			logging.Guard(g.name),
			logging.Field(field.Name),
			logging.Validator(v.Name()),
			slog.String("violation", string(verdict.Violation)),
			slog.Int("length", verdict.Length),
			slog.String("policy", string(policy)),
		)

		switch policy {
		case domain.OnFailException:
			return fieldRun{}, verdict.Err(field.Name)
		case domain.OnFailFix:
			value = verdict.FixValue
			fixed = true
		case domain.OnFailFilter:
			run.filtered = true
			run.clean = false
			return run, nil
		case domain.OnFailRefrain:
			run.refrain = true
			run.clean = false
			return run, nil
		default:
			run.clean = false
		}
	}

	// Untouched values keep their original Go type.
	if fixed {
		run.value = value.Raw()
	}
	return run, nil
}

// recordVerdict emits verdict metrics.
func (g *Guard) recordVerdict(ctx context.Context, v ports.Validator, value domain.Value, verdict domain.Verdict) {
	g.metrics.RecordCounter(ports.MetricVerdicts, 1, map[string]string{
		"validator": v.Name(),
		"shape":     string(value.Shape()),
		"outcome":   string(verdict.Outcome),
		"violation": string(verdict.Violation),
	})
	g.metrics.RecordHistogram(ports.MetricValueLength, float64(verdict.Length), map[string]string{
		"validator": v.Name(),
		"shape":     string(value.Shape()),
	})
	g.logger.DebugContext(ctx, "verdict",
		logging.Guard(g.name),
		logging.Validator(v.Name()),
		slog.String("outcome", string(verdict.Outcome)),
		slog.Int("length", verdict.Length),
	)
}
