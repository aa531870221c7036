// Package forms checks user input before anything is sent to the backend.
// A failed check returns ValidationError and leaves the form untouched.
package forms

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// PasswordMessage is shown when the sign-up password is too weak.
const PasswordMessage = "Password must have at least 8 characters, should include uppercase, lower case, special characters, and numbers."

// ValidationError maps a field name to the message shown next to it.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate

	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordSpecial = regexp.MustCompile(`[@$%&*!^()#]`)
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("form"); name != "" {
				return name
			}
			return fld.Name
		})
		_ = validate.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return ValidPassword(fl.Field().String())
		})
		_ = validate.RegisterValidation("day", func(fl validator.FieldLevel) bool {
			_, err := parseDay(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

func ValidPassword(p string) bool {
	return len(p) >= 8 && passwordUpper.MatchString(p) && passwordLower.MatchString(p) &&
		passwordDigit.MatchString(p) && passwordSpecial.MatchString(p)
}

func check(v interface{}) ValidationError {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationError{"form": err.Error()}
	}
	out := make(ValidationError, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe)] = describe(fe)
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "strongpassword":
		return PasswordMessage
	case "day":
		return "must be a date (YYYY-MM-DD)"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// merge folds b into a; either may be nil.
func merge(a, b ValidationError) ValidationError {
	if len(b) == 0 {
		return a
	}
	if a == nil {
		a = ValidationError{}
	}
	for k, v := range b {
		if _, exists := a[k]; !exists {
			a[k] = v
		}
	}
	return a
}

func asError(v ValidationError) error {
	if len(v) == 0 {
		return nil
	}
	return v
}
