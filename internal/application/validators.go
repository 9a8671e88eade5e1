package application

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-validlength/infrastructure/validators"
	"github.com/ahrav/go-validlength/internal/domain"
)

// ValidateValidatorParameters checks the declared parameters of a validator
// before it is built, so configuration mistakes surface with the field path
// instead of a generic construction error.
// Unknown validator types are accepted here; the registry rejects them
// when the guard is built.
func ValidateValidatorParameters(validatorType string, params yaml.Node) error {
	var paramMap map[string]any
	if params.Kind != 0 {
		if err := params.Decode(&paramMap); err != nil {
			return fmt.Errorf("failed to decode parameters: %w", err)
		}
	}

	switch validatorType {
	case validators.ValidLengthType, LegacyValidLengthType:
		return validateLengthParams(paramMap)
	default:
		return nil
	}
}

// validateLengthParams checks min, max and on_fail for valid-length.
func validateLengthParams(params map[string]any) error {
	allowed := map[string]struct{}{"min": {}, "max": {}, "on_fail": {}}
	for key := range params {
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("valid-length does not accept parameter %q", key)
		}
	}

	lo, hasMin, err := intParam(params, "min")
	if err != nil {
		return err
	}
	if hasMin && lo < 0 {
		return fmt.Errorf("min must be non-negative")
	}

	hi, hasMax, err := intParam(params, "max")
	if err != nil {
		return err
	}
	if hasMax && hi < 0 {
		return fmt.Errorf("max must be non-negative")
	}
	if hasMin && hasMax && hi < lo {
		return fmt.Errorf("max (%d) must be >= min (%d)", hi, lo)
	}

	if onFail, ok := params["on_fail"]; ok {
		name, ok := onFail.(string)
		if !ok {
			return fmt.Errorf("on_fail must be a string")
		}
		if _, err := domain.ParseOnFail(name); err != nil {
			return err
		}
	}

	return nil
}

// intParam reads an integer parameter. YAML decodes whole numbers as int.
func intParam(params map[string]any, key string) (int, bool, error) {
	raw, ok := params[key]
	if !ok {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case float64:
		if v != float64(int(v)) {
			return 0, true, fmt.Errorf("%s must be a whole number", key)
		}
		return int(v), true, nil
	default:
		return 0, true, fmt.Errorf("%s must be an integer", key)
	}
}

// RegisterGuardValidators registers custom validation functions with
// the validator instance for use in guard configuration validation.
func RegisterGuardValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("shape", validateShapeTag); err != nil {
		return fmt.Errorf("failed to register shape validator: %w", err)
	}
	return nil
}

// validateShapeTag accepts an empty shape or one of the supported shapes.
func validateShapeTag(fl validator.FieldLevel) bool {
	switch domain.Shape(fl.Field().String()) {
	case "", domain.ShapeText, domain.ShapeList:
		return true
	default:
		return false
	}
}
