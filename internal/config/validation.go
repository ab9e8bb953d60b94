package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/san-kum/netechos/internal/dynamo"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks the struct tags and reports every failing field as one
// dynamo.ErrInvalidParameter.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", dynamo.ErrInvalidParameter, strings.Join(msgs, "; "))
}

// formatFieldError names the field by its YAML path, e.g. attitudes.sigma.
func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
