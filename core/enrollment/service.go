package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/progress"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("enrollment not found")
	ErrAlreadyEnrolled = core.NewConflictError("user is already enrolled in this course")
)

type (
	Repository interface {
		CreateEnrollment(ctx context.Context, e Enrollment) (Enrollment, error)
		GetEnrollment(ctx context.Context, id string) (Enrollment, error)
		// GetForUserCourse returns the oldest enrollment of the user in the course.
		GetForUserCourse(ctx context.Context, userID, courseID string) (Enrollment, error)
		QueryEnrollments(ctx context.Context, filter *QueryFilter) ([]Enrollment, error)
		UpdateEnrollment(ctx context.Context, e Enrollment) (Enrollment, error)
	}

	ServiceInterface interface {
		// Enroll creates a PENDING enrollment; ErrAlreadyEnrolled when one exists.
		Enroll(ctx context.Context, userID, courseID string) (Enrollment, error)
		// Create creates a PENDING enrollment without checking for an existing one.
		Create(ctx context.Context, userID, courseID string) (Enrollment, error)
		GetByID(ctx context.Context, id string) (Enrollment, error)
		GetForUserCourse(ctx context.Context, userID, courseID string) (Enrollment, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Enrollment, error)
		UpdateStatus(ctx context.Context, e Enrollment, status Status) (Enrollment, error)
		UpdatePaymentStatus(ctx context.Context, e Enrollment, ps PaymentStatus) (Enrollment, error)
	}

	service struct {
		repo        Repository
		courseSvc   course.ServiceInterface
		progressSvc progress.ServiceInterface
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, courseSvc course.ServiceInterface, progressSvc progress.ServiceInterface) ServiceInterface {
	return &service{repo: repo, courseSvc: courseSvc, progressSvc: progressSvc}
}

func (svc *service) Enroll(ctx context.Context, userID, courseID string) (Enrollment, error) {
	if _, err := svc.courseSvc.GetByID(ctx, courseID); err != nil {
		return Enrollment{}, err
	}
	_, err := svc.repo.GetForUserCourse(ctx, userID, courseID)
	switch {
	case err == nil:
		return Enrollment{}, ErrAlreadyEnrolled
	case errors.Cause(err) != ErrNotFound:
		return Enrollment{}, errors.Wrap(err, "checking enrollment")
	}
	return svc.Create(ctx, userID, courseID)
}

func (svc *service) Create(ctx context.Context, userID, courseID string) (Enrollment, error) {
	now := time.Now().UTC()
	return svc.repo.CreateEnrollment(ctx, Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (svc *service) GetByID(ctx context.Context, id string) (Enrollment, error) {
	return svc.repo.GetEnrollment(ctx, id)
}

func (svc *service) GetForUserCourse(ctx context.Context, userID, courseID string) (Enrollment, error) {
	return svc.repo.GetForUserCourse(ctx, userID, courseID)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, filter)
}

// UpdateStatus moves e to status following the enrollment lifecycle.
// Activating an enrollment unlocks the first module of its course.
func (svc *service) UpdateStatus(ctx context.Context, e Enrollment, status Status) (Enrollment, error) {
	if !e.Status.CanBecome(status) {
		return Enrollment{}, core.NewValidationError(nil, core.FieldError{
			Field: "status",
			Error: fmt.Sprintf("cannot change status from %s to %s", e.Status, status),
		})
	}

	e.Status = status
	e.UpdatedAt = time.Now().UTC()
	e, err := svc.repo.UpdateEnrollment(ctx, e)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "updating enrollment")
	}

	if status == StatusActive {
		first, ok, err := svc.courseSvc.FirstModule(ctx, e.CourseID)
		if err != nil {
			return e, errors.Wrap(err, "finding first module")
		}
		if ok {
			if _, err = svc.progressSvc.Apply(ctx, e.UserID, e.CourseID, first.ID, progress.EventUnlock); err != nil {
				return e, errors.Wrap(err, "unlocking first module")
			}
		}
	}
	return e, nil
}

func (svc *service) UpdatePaymentStatus(ctx context.Context, e Enrollment, ps PaymentStatus) (Enrollment, error) {
	e.PaymentStatus = ps
	e.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEnrollment(ctx, e)
}
