package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// report fields under their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateDTO checks dto against its validate tags and returns one message per
// invalid field, keyed by JSON field name. It returns nil when dto is valid.
func ValidateDTO(dto any) map[string]string {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return map[string]string{"request": err.Error()}
	}

	fields := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe.Field(), fe.Tag(), fe.Param())
		}
	}
	return fields
}

// ValidateField checks a single value against tag and records the first
// violation under name in fields.
func ValidateField(fields map[string]string, name string, value any, tag string) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		fields[name] = message(name, vErrs[0].Tag(), vErrs[0].Param())
		return
	}
	fields[name] = fmt.Sprintf("%s is invalid", name)
}

func message(field, tag, param string) string {
	switch tag {
	case "notblank", "required":
		return fmt.Sprintf("%s must not be blank", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
