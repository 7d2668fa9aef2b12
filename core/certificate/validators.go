package certificate

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

const (
	typeTag  = "certificate_type"
	typeText = "invalid certificate type"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(typeTag, func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(Type)
		return ok && t.IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)
}
