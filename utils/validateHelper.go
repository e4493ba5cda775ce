package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks `validate` tags on the given input struct.
func ValidateStruct(input any) error {
	return validate.Struct(input)
}
