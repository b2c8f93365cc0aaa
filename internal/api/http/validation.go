package http

import (
	"errors"
	"reflect"
	"strings"

	"library-lending-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.InvalidInput("invalid request")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "datetime":
		return domain.InvalidInput(fe.Field() + " must be YYYY-MM-DD")
	default:
		return domain.InvalidInput(fe.Field() + " is invalid")
	}
}
