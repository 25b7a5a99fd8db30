// Package validate wraps go-playground/validator behind the field-error
// shape the API reports in 400 responses.
package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a request DTO by its `validate` tags. Returns nil when
// everything checks out.
func Struct(s any) Errs {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errs{{Field: "", Msg: err.Error()}}
	}
	out := make(Errs, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ErrField{Field: fieldName(fe), Msg: msgFor(fe)})
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

func msgFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min", "gte":
		return "must be >= " + fe.Param()
	case "max", "lte":
		return "must be <= " + fe.Param()
	case "email":
		return "invalid email address"
	default:
		return "invalid"
	}
}
