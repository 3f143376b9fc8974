// Package validators holds the request schemas of the public API. Every function is pure:
// it receives a decoded payload and returns the normalised payload or a *ValidationError.
package validators

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so errors line up with what the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages maps "<json field>.<tag>" to the text shown to the user.
type messages map[string]string

// check runs struct validation and converts failures with the schema's messages.
func check(payload interface{}, msgs messages, out *ValidationError) {
	err := validate.Struct(payload)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.add("_", err.Error())
		return
	}
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := msgs[field+"."+fe.Tag()]
		if !ok {
			msg = fallbackMessage(fe)
		}
		out.add(field, msg)
	}
}

func fallbackMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "email":
		return "Invalid email address"
	default:
		return fe.Field() + " is invalid"
	}
}
