package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// Generic field messages.
const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("validate")
	// Report errors under the form field name the browser submitted
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("year", func(fl validator.FieldLevel) bool {
		return models.Year(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("letter", func(fl validator.FieldLevel) bool {
		return models.Letter(fl.Field().String()).Valid()
	})
	return v
}

// Struct validates s against its `validate` tags and returns the failures keyed by form field.
func Struct(s interface{}) apperrors.FieldErrors {
	errs := apperrors.FieldErrors{}

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs.Add(apperrors.NonFieldErrors, err.Error())
		return errs
	}

	for _, fe := range ve {
		errs.Add(fe.Field(), formatValidationError(fe))
	}
	return errs
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", e.Param(), len([]rune(fmt.Sprint(e.Value()))))
	case "email":
		return "Enter a valid email address."
	case "oneof", "year", "letter":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", e.Value())
	default:
		return "Enter a valid value."
	}
}

// ParseWholeNumber parses a form value as an integer within [min, max].
// The returned message is empty on success.
func ParseWholeNumber(raw string, min, max int) (int, string) {
	raw = strings.TrimSpace(raw)
	if !CompiledPatterns.Integer.MatchString(raw) {
		return 0, "Enter a whole number."
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, "Enter a whole number."
	}
	if n < min {
		return n, fmt.Sprintf("Ensure this value is greater than or equal to %d.", min)
	}
	if n > max {
		return n, fmt.Sprintf("Ensure this value is less than or equal to %d.", max)
	}
	return n, ""
}

// ParseChoiceID parses a select/checkbox value holding a record id.
func ParseChoiceID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// InvalidChoice is the message for a value outside the offered choices.
func InvalidChoice(value string) string {
	return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", value)
}
