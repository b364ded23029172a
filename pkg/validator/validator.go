package validator

import (
	"regexp"

	pgvalidator "github.com/go-playground/validator/v10"
)

// emailPattern is intentionally stricter than RFC 5322: it requires a
// dotted domain with an alphabetic TLD, which is what the clinic intake
// forms accept.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validator wraps go-playground/validator with the clinic-specific
// validations registered.
type Validator struct {
	validate *pgvalidator.Validate
}

func New() *Validator {
	v := pgvalidator.New(pgvalidator.WithRequiredStructEnabled())

	// Shadow the built-in "email" check with the stricter pattern so
	// struct tags and Var() calls agree with EmailValid.
	_ = v.RegisterValidation("email", func(fl pgvalidator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates struct fields against their `validate` tags.
func (v *Validator) Struct(obj interface{}) error {
	return v.validate.Struct(obj)
}

// Var validates a single value against a rule expression, e.g. "min=6".
func (v *Validator) Var(value interface{}, rule string) error {
	return v.validate.Var(value, rule)
}

// EmailValid reports whether s matches the accepted email shape.
func (v *Validator) EmailValid(s string) bool {
	return emailPattern.MatchString(s)
}
