package quiz

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// PassMark is the minimum score of a passed attempt.
const PassMark = 80

type Question struct {
	ID            string   `json:"id"`
	Position      int      `json:"position"`
	Prompt        string   `json:"prompt"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

type Quiz struct {
	ID        string     `json:"id"`
	ModuleID  string     `json:"module_id"`
	CourseID  string     `json:"course_id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"` // by ascending Position
	CreatedAt time.Time  `json:"created_at"` // UTC
	UpdatedAt time.Time  `json:"updated_at"` // UTC
}

// Redacted returns a copy of the quiz without the correct answers.
func (q Quiz) Redacted() Quiz {
	qs := make([]Question, len(q.Questions))
	for i, qn := range q.Questions {
		qn.CorrectAnswer = ""
		qs[i] = qn
	}
	q.Questions = qs
	return q
}

// Score returns round(correct / total * 100). Unanswered questions count as wrong.
func Score(questions []Question, answers map[string]string) int {
	if len(questions) == 0 {
		return 0
	}
	var correct int
	for _, qn := range questions {
		if ans, ok := answers[qn.ID]; ok && ans == qn.CorrectAnswer {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(questions)) * 100))
}

func Passed(score int) bool { return score >= PassMark }

type AttemptStatus string

const (
	AttemptCompleted AttemptStatus = "COMPLETED"
	AttemptFailed    AttemptStatus = "FAILED"
)

type Attempt struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	QuizID    string            `json:"quiz_id"`
	Score     int               `json:"score"`
	Status    AttemptStatus     `json:"status"`
	Answers   map[string]string `json:"answers"`
	CreatedAt time.Time         `json:"created_at"` // UTC
}

type Result struct {
	Score   int     `json:"score"`
	Passed  bool    `json:"passed"`
	Attempt Attempt `json:"attempt"`
}

type NewQuestion struct {
	Prompt        string   `json:"prompt" validate:"required"`
	Choices       []string `json:"choices" validate:"omitempty,unique"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
}

type NewQuiz struct {
	Title     string        `json:"title" validate:"required,max=200"`
	Questions []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Title = core.CleanString(nq.Title)
	for i := range nq.Questions {
		qn := &nq.Questions[i]
		qn.Prompt = core.CleanString(qn.Prompt)
		qn.CorrectAnswer = core.CleanString(qn.CorrectAnswer)
		for j := range qn.Choices {
			qn.Choices[j] = core.CleanString(qn.Choices[j])
		}
	}
	return validate.Struct(nq)
}

type SubmitAttempt struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

func (sa SubmitAttempt) Validate(validate *validator.Validate) error { return validate.Struct(sa) }
