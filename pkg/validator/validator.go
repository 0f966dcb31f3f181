package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var bloodGroups = map[string]struct{}{
	"A+": {}, "A-": {},
	"B+": {}, "B-": {},
	"AB+": {}, "AB-": {},
	"O+": {}, "O-": {},
}

// RegisterCustom installs domain validations on gin's binding engine.
// Request structs can then use `binding:"bloodgroup"` on string fields.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
		_, ok := bloodGroups[fl.Field().String()]
		return ok
	})
}
