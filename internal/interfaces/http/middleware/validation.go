package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/erpbridge/backend/internal/domain/warehouse"
)

// SetupValidator registers domain validations on gin's binding validator.
// Safe to call more than once.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("ownership_role", func(fl validator.FieldLevel) bool {
		return warehouse.Role(fl.Field().String()).Valid()
	})
}
