package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/storefront-api/internal/phone"
)

const (
	// minPhoneDigits is the fewest digits a submitted phone may carry.
	minPhoneDigits = 5
	// maxPhoneLength matches the phone columns, counted with the leading plus.
	maxPhoneLength = 32
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9\s()\-]+$`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
// Field names in validation errors are the JSON names of the fields.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom "notblank" validator - rejects whitespace-only strings
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// "phone" is a loose check: digits with the usual separators and enough
	// digits to be dialable. Formatting is kept as submitted.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return len(str) <= maxPhoneLength &&
			phonePattern.MatchString(str) &&
			len(phone.Normalize(str)) >= minPhoneDigits
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return slugPattern.MatchString(str)
	})

	return v
}
