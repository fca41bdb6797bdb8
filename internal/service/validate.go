package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs struct tag validation and returns the first failure as
// a *ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	field := e.Field()
	switch e.Tag() {
	case "required":
		return invalid(field, "is required")
	case "email":
		return invalid(field, "must be a valid email")
	case "min":
		return invalid(field, fmt.Sprintf("must be at least %s", e.Param()))
	case "max":
		return invalid(field, fmt.Sprintf("must be at most %s", e.Param()))
	case "gt":
		return invalid(field, fmt.Sprintf("must be greater than %s", e.Param()))
	case "hexcolor":
		return invalid(field, "must be a hex color")
	case "oneof":
		return invalid(field, "must be one of "+e.Param())
	default:
		return invalid(field, "is invalid")
	}
}

func nonNegative(field string, d *decimal.Decimal) error {
	if d != nil && d.IsNegative() {
		return invalid(field, "must not be negative")
	}
	return nil
}

// blankToNil turns an empty or whitespace string into nil so optional text
// columns store NULL.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
