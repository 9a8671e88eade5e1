package application

import (
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-validlength/internal/domain"
)

// GuardConfig declares which validators run on which output fields.
// It is the declarative form of the host's registration step: each
// validator is looked up by its stable identifier and built from the
// parameters written next to the field.
type GuardConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across releases.
	Version string `yaml:"version" validate:"required,semver"`
	// Name identifies the guard in logs, traces and metrics.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description explains what output the guard protects.
	Description string `yaml:"description" validate:"max=1000"`
	// Fields lists the output fields the guard validates.
	Fields []FieldConfig `yaml:"fields" validate:"required,min=1,dive"`
}

// FieldConfig binds an ordered list of validators to one output field.
type FieldConfig struct {
	// Name is the key of the field in the decoded output.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Shape optionally pins the field to "text" or "list". Values that
	// coerce to the other shape are rejected.
	Shape domain.Shape `yaml:"shape,omitempty" validate:"shape"`
	// Validators run in declaration order; a fix produced by one is the
	// input of the next.
	Validators []ValidatorConfig `yaml:"validators" validate:"required,min=1,max=20,dive"`
}

// ValidatorConfig declares a single validator for a field.
type ValidatorConfig struct {
	// Type is the registry identifier, e.g. "valid-length".
	Type string `yaml:"type" validate:"required,min=1,max=100"`
	// ID names this validator instance. When empty the loader derives
	// "<field>.<type>".
	ID string `yaml:"id,omitempty" validate:"omitempty,min=1,max=100"`
	// Parameters contains type-specific configuration as flexible YAML
	// that will be validated according to the validator type.
	Parameters yaml.Node `yaml:"parameters,omitempty"`
}
