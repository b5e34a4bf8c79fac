package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var (
	validate   = newValidator()
	gstinRe    = regexp.MustCompile(`^[0-9A-Za-z]{15}$`)
	personName = regexp.MustCompile(`^[A-Za-z][A-Za-z ]{2,}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return gstinRe.MatchString(fl.Field().String())
	})
	v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personName.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

// StrongPassword requires 8+ characters with upper, lower, digit and symbol.
func StrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, c := range p {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			special = true
		}
	}
	return upper && lower && digit && special
}

// Decode reads a JSON body into dst and validates its struct tags.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Invalid request body: " + err.Error())
	}
	return Validate(dst)
}

// Validate checks the validate tags of v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(err.Error())
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return apperr.Validation("Validation failed", fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "lte":
		return fe.Field() + " must be less than or equal to " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "password":
		return "Password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a number and a special character"
	case "gstin":
		return "GST number must be 15 alphanumeric characters"
	case "personname":
		return "Name must be at least 3 letters"
	case "uuid", "uuid4":
		return fe.Field() + " must be a valid id"
	default:
		return fe.Field() + " is invalid"
	}
}
