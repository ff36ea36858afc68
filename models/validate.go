// models/validate.go
package models

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("teamrole", func(fl validator.FieldLevel) bool {
		return TeamRoleTag(fl.Field().String()).Valid()
	})
}

// Validate checks the struct tags of a model or request value.
func Validate(v interface{}) error {
	return validate.Struct(v)
}
