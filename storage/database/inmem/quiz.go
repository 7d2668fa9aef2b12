package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/quiz"
)

type quizRepository struct {
	quizzes  *table[quiz.Quiz]
	attempts *table[quiz.Attempt]
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{quizzes: db.quizzes, attempts: db.attempts}
}

// copyQuiz detaches the question slice so stored rows cannot be mutated by callers.
func copyQuiz(q quiz.Quiz) quiz.Quiz {
	qs := make([]quiz.Question, len(q.Questions))
	for i, qn := range q.Questions {
		qn.Choices = append([]string{}, qn.Choices...)
		qs[i] = qn
	}
	q.Questions = qs
	return q
}

func copyAttempt(a quiz.Attempt) quiz.Attempt {
	answers := make(map[string]string, len(a.Answers))
	for k, v := range a.Answers {
		answers[k] = v
	}
	a.Answers = answers
	return a
}

func (repo *quizRepository) CreateQuiz(_ context.Context, q quiz.Quiz) (quiz.Quiz, error) {
	repo.quizzes.mu.Lock()
	defer repo.quizzes.mu.Unlock()

	if _, taken := repo.quizzes.find(func(o quiz.Quiz) bool { return o.ModuleID == q.ModuleID }); taken {
		return quiz.Quiz{}, quiz.ErrModuleHasQuiz
	}
	q.ID = uuid.New().String()
	q = copyQuiz(q)
	repo.quizzes.insert(q.ID, q)
	return copyQuiz(q), nil
}

func (repo *quizRepository) GetQuiz(_ context.Context, id string) (quiz.Quiz, error) {
	repo.quizzes.mu.RLock()
	defer repo.quizzes.mu.RUnlock()

	if q, ok := repo.quizzes.get(id); ok {
		return copyQuiz(q), nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) GetQuizForModule(_ context.Context, moduleID string) (quiz.Quiz, error) {
	repo.quizzes.mu.RLock()
	defer repo.quizzes.mu.RUnlock()

	if q, ok := repo.quizzes.find(func(q quiz.Quiz) bool { return q.ModuleID == moduleID }); ok {
		return copyQuiz(q), nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) CreateAttempt(_ context.Context, a quiz.Attempt) (quiz.Attempt, error) {
	repo.attempts.mu.Lock()
	defer repo.attempts.mu.Unlock()

	a.ID = uuid.New().String()
	a = copyAttempt(a)
	repo.attempts.insert(a.ID, a)
	return copyAttempt(a), nil
}

func (repo *quizRepository) QueryAttempts(_ context.Context, userID, quizID string) ([]quiz.Attempt, error) {
	repo.attempts.mu.RLock()
	defer repo.attempts.mu.RUnlock()

	attempts := repo.attempts.filter(func(a quiz.Attempt) bool { return a.UserID == userID && a.QuizID == quizID })
	for i := range attempts {
		attempts[i] = copyAttempt(attempts[i])
	}
	return reversed(attempts), nil
}
