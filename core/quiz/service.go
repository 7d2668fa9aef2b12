package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/certificate"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/progress"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("quiz not found")
	ErrModuleHasQuiz = core.NewConflictError("this module already has a quiz")
)

type (
	Repository interface {
		// CreateQuiz stores the quiz and its questions; ErrModuleHasQuiz when the module already has one.
		CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
		GetQuiz(ctx context.Context, id string) (Quiz, error)
		GetQuizForModule(ctx context.Context, moduleID string) (Quiz, error)
		CreateAttempt(ctx context.Context, a Attempt) (Attempt, error)
		// QueryAttempts returns the user's attempts on the quiz, most recent first.
		QueryAttempts(ctx context.Context, userID, quizID string) ([]Attempt, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, moduleID string, nq NewQuiz) (Quiz, error)
		GetByID(ctx context.Context, id string) (Quiz, error)
		GetForModule(ctx context.Context, moduleID string) (Quiz, error)
		SubmitAttempt(ctx context.Context, userID, quizID string, answers map[string]string) (Result, error)
		QueryAttempts(ctx context.Context, userID, quizID string) ([]Attempt, error)
	}

	service struct {
		repo        Repository
		courseSvc   course.ServiceInterface
		progressSvc progress.ServiceInterface
		certSvc     certificate.ServiceInterface
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(
	repo Repository,
	courseSvc course.ServiceInterface,
	progressSvc progress.ServiceInterface,
	certSvc certificate.ServiceInterface,
) ServiceInterface {
	return &service{repo: repo, courseSvc: courseSvc, progressSvc: progressSvc, certSvc: certSvc}
}

func (svc *service) Create(ctx context.Context, moduleID string, nq NewQuiz) (Quiz, error) {
	mod, err := svc.courseSvc.GetModule(ctx, moduleID)
	if err != nil {
		return Quiz{}, err
	}
	if _, err = svc.repo.GetQuizForModule(ctx, moduleID); err == nil {
		return Quiz{}, ErrModuleHasQuiz
	} else if errors.Cause(err) != ErrNotFound {
		return Quiz{}, errors.Wrap(err, "checking module quiz")
	}

	now := time.Now().UTC()
	q := Quiz{
		ModuleID:  mod.ID,
		CourseID:  mod.CourseID,
		Title:     nq.Title,
		Questions: make([]Question, 0, len(nq.Questions)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, qn := range nq.Questions {
		choices := qn.Choices
		if choices == nil {
			choices = []string{}
		}
		q.Questions = append(q.Questions, Question{
			ID:            uuid.New().String(),
			Position:      i + 1,
			Prompt:        qn.Prompt,
			Choices:       choices,
			CorrectAnswer: qn.CorrectAnswer,
		})
	}
	return svc.repo.CreateQuiz(ctx, q)
}

func (svc *service) GetByID(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuiz(ctx, id)
}

func (svc *service) GetForModule(ctx context.Context, moduleID string) (Quiz, error) {
	return svc.repo.GetQuizForModule(ctx, moduleID)
}

// SubmitAttempt scores the answers, records the attempt and moves the user's progress:
// the quiz module is completed; on a pass the next module is unlocked,
// or the course completion certificate is issued when there is no next module.
// Steps are not transactional: a failure after the attempt is stored leaves it stored.
func (svc *service) SubmitAttempt(ctx context.Context, userID, quizID string, answers map[string]string) (Result, error) {
	q, err := svc.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return Result{}, err
	}
	mod, err := svc.courseSvc.GetModule(ctx, q.ModuleID)
	if err != nil {
		return Result{}, errors.Wrap(err, "getting quiz module")
	}

	score := Score(q.Questions, answers)
	passed := Passed(score)
	status := AttemptFailed
	if passed {
		status = AttemptCompleted
	}
	if answers == nil {
		answers = map[string]string{}
	}

	attempt, err := svc.repo.CreateAttempt(ctx, Attempt{
		UserID:    userID,
		QuizID:    q.ID,
		Score:     score,
		Status:    status,
		Answers:   answers,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "recording attempt")
	}

	if _, err = svc.progressSvc.Apply(ctx, userID, mod.CourseID, mod.ID, progress.EventComplete); err != nil {
		return Result{}, errors.Wrap(err, "completing module")
	}

	if passed {
		next, ok, err := svc.courseSvc.NextModule(ctx, mod)
		if err != nil {
			return Result{}, err
		}
		if ok {
			if _, err = svc.progressSvc.Apply(ctx, userID, mod.CourseID, next.ID, progress.EventUnlock); err != nil {
				return Result{}, errors.Wrap(err, "unlocking next module")
			}
		} else {
			if _, err = svc.certSvc.Issue(ctx, userID, mod.CourseID, certificate.TypeCompletion); err != nil {
				return Result{}, errors.Wrap(err, "issuing completion certificate")
			}
		}
	}

	return Result{Score: score, Passed: passed, Attempt: attempt}, nil
}

func (svc *service) QueryAttempts(ctx context.Context, userID, quizID string) ([]Attempt, error) {
	if _, err := svc.repo.GetQuiz(ctx, quizID); err != nil {
		return nil, err
	}
	return svc.repo.QueryAttempts(ctx, userID, quizID)
}
