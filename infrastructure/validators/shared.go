// Package validators provides field validators that implement the
// ports.Validator interface for the validlength host contract.
package validators

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-validlength/internal/domain"
)

// Common errors returned by validator constructors.
var (
	// ErrEmptyValidatorName is returned when attempting to create a validator
	// with an empty name.
	ErrEmptyValidatorName = errors.New("validator name cannot be empty")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("onfail", validateOnFail); err != nil {
		panic(fmt.Sprintf("failed to register onfail validator: %v", err))
	}
	return v
}

// validateOnFail accepts only canonical domain.OnFail names.
func validateOnFail(fl validator.FieldLevel) bool {
	return domain.OnFail(fl.Field().String()).Valid()
}

// validateConfig runs struct validation and folds the result into a
// *domain.ValidationError so callers can match domain.ErrInvalidConfiguration.
func validateConfig(entity string, config any) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	verr := domain.NewValidationError(entity)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verr.AddError(fmt.Sprintf("%s failed %q (param %q, value %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		}
		return verr
	}
	verr.AddError(err.Error())
	return verr
}
