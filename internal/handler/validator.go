package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validate     *Validator
	validateOnce sync.Once
)

// InitValidator builds the shared validator and its custom tags
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("trigger", validateTrigger)
	_ = v.RegisterValidation("notblank", validateNotBlank)

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	validateOnce.Do(func() {
		if validate == nil {
			InitValidator()
		}
	})
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError turns validation errors into a field → message map
// without leaking Go struct names
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required", "notblank":
			errs[field] = "This field is required"
		case "uuid", "uuid4":
			errs[field] = "Must be a UUID"
		case "trigger":
			errs[field] = "Unknown raid trigger"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// ValidTriggers lists the raid triggers a caller may request
var ValidTriggers = map[domain.RaidTrigger]bool{
	domain.RaidTriggerWandering:   true,
	domain.RaidTriggerQuota:       true,
	domain.RaidTriggerExploration: true,
	domain.RaidTriggerManual:      true,
}

// empty is allowed; the service picks the default trigger
func validateTrigger(fl validator.FieldLevel) bool {
	trigger := fl.Field().String()
	if trigger == "" {
		return true
	}
	return ValidTriggers[domain.RaidTrigger(strings.ToLower(trigger))]
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
