package utils

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate runs struct-tag validation on a request or payload struct.
func Validate(s interface{}) error {
	return validate.Struct(s)
}
