package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/studahub/backend/internal/model"
)

// RegisterValidators installs the custom binding tags on gin's validator
// engine. Idempotent; the router calls it once at startup.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return model.ValidPaymentMethod(model.PaymentMethod(fl.Field().String()))
	})
}
