package enrollment

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

const (
	statusTag         = "enrollment_status"
	statusText        = "invalid enrollment status"
	paymentStatusTag  = "payment_status"
	paymentStatusText = "invalid payment status"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(Status)
		return ok && s.IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	_ = validate.RegisterValidation(paymentStatusTag, func(fl validator.FieldLevel) bool {
		ps, ok := fl.Field().Interface().(PaymentStatus)
		return ok && ps.IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, paymentStatusTag, paymentStatusText)
}
