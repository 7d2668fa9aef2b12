package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/quiz"
)

const (
	quizColumns     = "id, module_id, course_id, title, created_at, updated_at"
	questionColumns = "id, quiz_id, position, prompt, choices, correct_answer"
	attemptColumns  = "id, user_id, quiz_id, score, status, answers, created_at"
)

type quizRow struct {
	ID        string    `boil:"id"`
	ModuleID  string    `boil:"module_id"`
	CourseID  string    `boil:"course_id"`
	Title     string    `boil:"title"`
	CreatedAt time.Time `boil:"created_at"`
	UpdatedAt time.Time `boil:"updated_at"`
}

type questionRow struct {
	ID            string    `boil:"id"`
	QuizID        string    `boil:"quiz_id"`
	Position      int       `boil:"position"`
	Prompt        string    `boil:"prompt"`
	Choices       null.JSON `boil:"choices"`
	CorrectAnswer string    `boil:"correct_answer"`
}

type attemptRow struct {
	ID        string    `boil:"id"`
	UserID    string    `boil:"user_id"`
	QuizID    string    `boil:"quiz_id"`
	Score     int       `boil:"score"`
	Status    string    `boil:"status"`
	Answers   null.JSON `boil:"answers"`
	CreatedAt time.Time `boil:"created_at"`
}

func (r attemptRow) unboil() (quiz.Attempt, error) {
	a := quiz.Attempt{
		ID:        r.ID,
		UserID:    r.UserID,
		QuizID:    r.QuizID,
		Score:     r.Score,
		Status:    quiz.AttemptStatus(r.Status),
		Answers:   map[string]string{},
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.Answers.Valid {
		if err := r.Answers.Unmarshal(&a.Answers); err != nil {
			return quiz.Attempt{}, errors.Wrap(err, "decoding answers")
		}
	}
	return a, nil
}

// jsonText encodes v as JSON text; JSON columns are TEXT on every engine.
func jsonText(v interface{}) (string, error) {
	var j null.JSON
	if err := j.Marshal(v); err != nil {
		return "", err
	}
	return string(j.JSON), nil
}

type quizRepository struct {
	repo
	db core.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db core.DB, engine string) quiz.Repository {
	return &quizRepository{repo: newRepo(db, engine), db: db}
}

// CreateQuiz inserts the quiz and its questions in one transaction.
func (repo *quizRepository) CreateQuiz(ctx context.Context, q quiz.Quiz) (quiz.Quiz, error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "beginning transaction")
	}
	txRepo := repo.repo
	txRepo.exec = tx

	q.ID = uuid.New().String()
	_, err = txRepo.execute(ctx,
		"INSERT INTO quizzes ("+quizColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		q.ID, q.ModuleID, q.CourseID, q.Title, q.CreatedAt.UTC(), q.UpdatedAt.UTC(),
	)
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return quiz.Quiz{}, quiz.ErrModuleHasQuiz
		}
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}

	for _, qn := range q.Questions {
		choices, err := jsonText(qn.Choices)
		if err != nil {
			_ = tx.Rollback()
			return quiz.Quiz{}, errors.Wrap(err, "encoding choices")
		}
		_, err = txRepo.execute(ctx,
			"INSERT INTO quiz_questions ("+questionColumns+") VALUES (?, ?, ?, ?, ?, ?)",
			qn.ID, q.ID, qn.Position, qn.Prompt, choices, qn.CorrectAnswer,
		)
		if err != nil {
			_ = tx.Rollback()
			return quiz.Quiz{}, errors.Wrap(err, "inserting question")
		}
	}

	if err = tx.Commit(); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "committing quiz")
	}
	return q, nil
}

func (repo *quizRepository) withQuestions(ctx context.Context, row quizRow) (quiz.Quiz, error) {
	q := quiz.Quiz{
		ID:        row.ID,
		ModuleID:  row.ModuleID,
		CourseID:  row.CourseID,
		Title:     row.Title,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}

	var rows []questionRow
	err := repo.query(ctx, &rows, "SELECT "+questionColumns+" FROM quiz_questions WHERE quiz_id = ? ORDER BY position ASC", q.ID)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "querying questions")
	}
	q.Questions = make([]quiz.Question, 0, len(rows))
	for _, r := range rows {
		qn := quiz.Question{
			ID:            r.ID,
			Position:      r.Position,
			Prompt:        r.Prompt,
			Choices:       []string{},
			CorrectAnswer: r.CorrectAnswer,
		}
		if r.Choices.Valid {
			if err = r.Choices.Unmarshal(&qn.Choices); err != nil {
				return quiz.Quiz{}, errors.Wrap(err, "decoding choices")
			}
		}
		q.Questions = append(q.Questions, qn)
	}
	return q, nil
}

func (repo *quizRepository) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	var row quizRow
	if err := repo.query(ctx, &row, "SELECT "+quizColumns+" FROM quizzes WHERE id = ?", id); err != nil {
		return quiz.Quiz{}, trapNoRowsErr(err, quiz.ErrNotFound, "getting quiz")
	}
	return repo.withQuestions(ctx, row)
}

func (repo *quizRepository) GetQuizForModule(ctx context.Context, moduleID string) (quiz.Quiz, error) {
	var row quizRow
	if err := repo.query(ctx, &row, "SELECT "+quizColumns+" FROM quizzes WHERE module_id = ?", moduleID); err != nil {
		return quiz.Quiz{}, trapNoRowsErr(err, quiz.ErrNotFound, "getting module quiz")
	}
	return repo.withQuestions(ctx, row)
}

func (repo *quizRepository) CreateAttempt(ctx context.Context, a quiz.Attempt) (quiz.Attempt, error) {
	answers, err := jsonText(a.Answers)
	if err != nil {
		return quiz.Attempt{}, errors.Wrap(err, "encoding answers")
	}
	a.ID = uuid.New().String()
	_, err = repo.execute(ctx,
		"INSERT INTO quiz_attempts ("+attemptColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.UserID, a.QuizID, a.Score, string(a.Status), answers, a.CreatedAt.UTC(),
	)
	if err != nil {
		return quiz.Attempt{}, errors.Wrap(err, "inserting attempt")
	}
	return a, nil
}

func (repo *quizRepository) QueryAttempts(ctx context.Context, userID, quizID string) ([]quiz.Attempt, error) {
	var rows []attemptRow
	err := repo.query(ctx, &rows,
		"SELECT "+attemptColumns+" FROM quiz_attempts WHERE user_id = ? AND quiz_id = ? ORDER BY created_at DESC, id DESC",
		userID, quizID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying attempts")
	}
	attempts := make([]quiz.Attempt, 0, len(rows))
	for _, r := range rows {
		a, err := r.unboil()
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
