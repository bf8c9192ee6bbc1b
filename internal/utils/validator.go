// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("item_id", validateItemID)
	validate.RegisterValidation("dimension", validateDimension)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Item type ids are namespaced identifiers like "minecraft:diamond".
func validateItemID(fl validator.FieldLevel) bool {
	matched, _ := regexp.MatchString(`^[a-z0-9_.]+:[a-z0-9_./]+$`, fl.Field().String())
	return matched
}

func validateDimension(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "overworld", "nether", "the_end":
		return true
	}
	// Custom dimensions come through namespaced.
	matched, _ := regexp.MatchString(`^[a-z0-9_.]+:[a-z0-9_./]+$`, fl.Field().String())
	return matched
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "item_id":
		return "Item id must be a namespaced identifier like minecraft:diamond"
	case "dimension":
		return "Dimension must be overworld, nether, the_end or a namespaced id"
	default:
		return e.Field() + " is invalid"
	}
}
