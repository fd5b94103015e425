package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// FormatValidationError renders one failed field as a sentence.
func FormatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		if err.Kind() == reflect.Slice {
			return err.Field() + " must have at least " + err.Param() + " items"
		}
		return err.Field() + " must be at least " + err.Param() + " characters long"
	case "max":
		if err.Kind() == reflect.Slice {
			return err.Field() + " must have at most " + err.Param() + " items"
		}
		return err.Field() + " must be at most " + err.Param() + " characters long"
	case "url", "http_url":
		return err.Field() + " must be a valid URL"
	case "gte":
		return err.Field() + " must be at least " + err.Param()
	case "latitude", "longitude":
		return err.Field() + " must be a valid " + err.Tag()
	default:
		return err.Field() + " failed " + err.Tag() + " validation"
	}
}

// bindJSON parses the body into dst and validates it. On failure the error
// response has already been written and the returned bool is false.
func bindJSON(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, errBadRequest(c, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, errBadRequest(c, err.Error())
		}
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = FormatValidationError(fe)
		}
		return false, errValidation(c, fields)
	}
	return true, nil
}
