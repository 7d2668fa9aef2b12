package quiz

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

const (
	answerChoiceTag  = "answerchoice"
	answerChoiceText = "{0} must be one of the question choices"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(questionStructValidation, NewQuestion{})
	core.RegisterCustomTranslation(validate, translator, answerChoiceTag, answerChoiceText)
}

// questionStructValidation requires the correct answer of a multiple choice question to be one of its choices.
func questionStructValidation(sl validator.StructLevel) {
	qn, ok := sl.Current().Interface().(NewQuestion)
	if !ok || len(qn.Choices) == 0 || qn.CorrectAnswer == "" {
		return
	}
	if !core.ContainsString(qn.Choices, qn.CorrectAnswer) {
		sl.ReportError(qn.CorrectAnswer, "correct_answer", "CorrectAnswer", answerChoiceTag, "")
	}
}
