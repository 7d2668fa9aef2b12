package progress

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("progress not found")
)

type (
	Repository interface {
		// GetProgress returns ErrNotFound when the (user, course, module) row does not exist.
		GetProgress(ctx context.Context, userID, courseID, moduleID string) (Progress, error)
		// SaveProgress inserts or updates the (user, course, module) row.
		// A stored state is never replaced by an earlier one; the stored row is returned instead.
		SaveProgress(ctx context.Context, p Progress) (Progress, error)
		QueryProgress(ctx context.Context, userID, courseID string) ([]Progress, error)
	}

	ServiceInterface interface {
		Apply(ctx context.Context, userID, courseID, moduleID string, ev Event) (Progress, error)
		ListForCourse(ctx context.Context, userID, courseID string) ([]Progress, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Apply(ctx context.Context, userID, courseID, moduleID string, ev Event) (Progress, error) {
	exists := true
	p, err := svc.repo.GetProgress(ctx, userID, courseID, moduleID)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			return Progress{}, errors.Wrap(err, "getting progress")
		}
		exists = false
		p = Progress{UserID: userID, CourseID: courseID, ModuleID: moduleID}
	}

	prev := p.Status
	p.apply(ev, exists, time.Now().UTC())
	if exists && prev == p.Status && ev != EventComplete {
		return p, nil
	}
	return svc.repo.SaveProgress(ctx, p)
}

func (svc *service) ListForCourse(ctx context.Context, userID, courseID string) ([]Progress, error) {
	return svc.repo.QueryProgress(ctx, userID, courseID)
}
