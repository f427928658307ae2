package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"time"
	"unicode/utf8"

	errors "github.com/frahmantamala/maintenance-management/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{fields: make([]*FieldValidator, 0)}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

// present reports whether an optional value was supplied. Optional fields are
// only checked when present.
func present(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case *string:
		return v != nil
	case *int:
		return v != nil
	case *int64:
		return v != nil
	case *float64:
		return v != nil
	case *time.Time:
		return v != nil
	}
	return true
}

func deref(value interface{}) interface{} {
	switch v := value.(type) {
	case *string:
		return *v
	case *int:
		return *v
	case *int64:
		return *v
	case *float64:
		return *v
	case *time.Time:
		return *v
	}
	return value
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		switch v := deref(value).(type) {
		case string:
			if v == "" {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case int:
			if v == 0 {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case int64:
			if v == 0 {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case time.Time:
			if v.IsZero() {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Min(min float64) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return nil
		}
		if v, ok := asFloat(deref(value)); ok && v < min {
			return fv.fail(fmt.Sprintf("%s must be at least %v", fv.FieldName, min), errors.ErrCodeOutOfRange)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Max(max float64) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return nil
		}
		if v, ok := asFloat(deref(value)); ok && v > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %v", fv.FieldName, max), errors.ErrCodeOutOfRange)
		}
		return nil
	})
	return fv
}

// Between is an inclusive range check.
func (fv *FieldValidator) Between(min, max float64) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return nil
		}
		if v, ok := asFloat(deref(value)); ok && (v < min || v > max) {
			return fv.fail(fmt.Sprintf("%s must be between %v and %v", fv.FieldName, min, max), errors.ErrCodeOutOfRange)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return nil
		}
		if v, ok := deref(value).(string); ok && utf8.RuneCountInString(v) < min {
			return fv.fail(fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return nil
		}
		if v, ok := deref(value).(string); ok && utf8.RuneCountInString(v) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Pattern(re *regexp.Regexp, message string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return nil
		}
		if v, ok := deref(value).(string); ok && v != "" && !re.MatchString(v) {
			return fv.fail(message, errors.ErrCodeInvalidFormat)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return nil
		}
		v, ok := deref(value).(string)
		if !ok || v == "" {
			return nil
		}
		if addr, err := mail.ParseAddress(v); err != nil || addr.Address != v {
			return fv.fail(fmt.Sprintf("%s must be a valid email address", fv.FieldName), errors.ErrCodeInvalidFormat)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return nil
		}
		v, ok := deref(value).(string)
		if !ok || v == "" {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("%s must be one of %v", fv.FieldName, allowed), errors.ErrCodeInvalidEnum)
	})
	return fv
}

func (fv *FieldValidator) NotFuture() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if !present(value) {
			return nil
		}
		if v, ok := deref(value).(time.Time); ok && v.After(time.Now()) {
			return fv.fail(fmt.Sprintf("%s cannot be in the future", fv.FieldName), errors.ErrCodeInvalidDate)
		}
		return nil
	})
	return fv
}

// Equals checks the value against another field, e.g. a password confirmation.
func (fv *FieldValidator) Equals(other interface{}, message string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if deref(value) != deref(other) {
			return fv.fail(message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every rule and folds the failures into a single validation error.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
				continue
			}
			validationErrors = append(validationErrors, errors.ValidationError{
				Field:   field.FieldName,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// Err is Validate for callers returning error; a pass yields an untyped nil.
func (v *ValidationBuilder) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ValidateProgression checks a work order completion percentage.
func ValidateProgression(percent int) *errors.AppError {
	validator := NewValidator()
	validator.Field("progression", percent).Between(0, 100)
	return validator.Validate()
}
