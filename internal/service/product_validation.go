package service

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"atelier-catalog/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

func init() {
	validate = validator.New()

	// Report form field names, not Go struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}

// ValidateProductData checks a parsed submission against the catalog's
// business rules and returns every violation found. All bounds are
// inclusive: a 100-character slug, a price of exactly 99999 and a
// 20th tag are all valid. The rules themselves live as validate tags
// on domain.ProductData.
func ValidateProductData(data domain.ProductData) []domain.ValidationError {
	errs := []domain.ValidationError{}

	err := validate.Struct(data)
	if err == nil {
		return errs
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs = append(errs, domain.ValidationError{Field: "form", Message: "Invalid submission"})
		return errs
	}

	for _, e := range validationErrors {
		errs = append(errs, domain.ValidationError{
			Field:   fieldName(e),
			Message: fieldMessage(e),
		})
	}

	return errs
}

// fieldName strips the element index a dive validation appends, so a
// violation on tags[7] is reported against the tags field.
func fieldName(e validator.FieldError) string {
	name := e.Field()
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	return name
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "slug":
		return "May only contain lowercase letters, numbers, and hyphens"
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("At most %s entries are allowed", e.Param())
		}
		return fmt.Sprintf("Must be at most %s characters", e.Param())
	case "gte":
		return "Must be a valid non-negative number"
	case "lte":
		return fmt.Sprintf("Must not exceed %s", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "startswith":
		return fmt.Sprintf("Must start with %s", e.Param())
	default:
		return "Invalid value"
	}
}
