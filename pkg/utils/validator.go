package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate        *validator.Validate
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// ValidateStruct checks dto against its validate tags and describes the first
// failing field by its JSON name.
func ValidateStruct(dto any) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		first := vErrs[0]
		if first.Param() != "" {
			return fmt.Errorf("field %s failed on %s=%s", first.Field(), first.Tag(), first.Param())
		}
		return fmt.Errorf("field %s failed on %s", first.Field(), first.Tag())
	}
	return err
}
