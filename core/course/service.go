package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("course not found")
	ErrModuleNotFound   = core.NewNotFoundError("module not found")
	ErrModuleOrderTaken = core.NewConflictError("a module with this order already exists in the course")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course) (Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		QueryCourses(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, c Course) (Course, error)
		DeleteCourse(ctx context.Context, id string) error

		CreateModule(ctx context.Context, m Module) (Module, error)
		GetModule(ctx context.Context, id string) (Module, error)
		// QueryModules returns the modules of a course by ascending order.
		QueryModules(ctx context.Context, courseID string) ([]Module, error)
		// GetNextModule returns the module with the smallest order strictly greater than afterOrder.
		GetNextModule(ctx context.Context, courseID string, afterOrder int) (Module, error)
		DeleteModule(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nc NewCourse) (Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		Update(ctx context.Context, c Course, uc UpdateCourse) (Course, error)
		Delete(ctx context.Context, id string) error

		AddModule(ctx context.Context, courseID string, nm NewModule) (Module, error)
		GetModule(ctx context.Context, id string) (Module, error)
		Sequence(ctx context.Context, courseID string) (Sequence, error)
		// NextModule returns the module following mod in its course; ok is false when mod is the last one.
		NextModule(ctx context.Context, mod Module) (next Module, ok bool, err error)
		FirstModule(ctx context.Context, courseID string) (first Module, ok bool, err error)
		DeleteModule(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	return svc.repo.CreateCourse(ctx, Course{
		Title:       nc.Title,
		Description: nc.Description,
		TutorID:     nc.TutorID,
		IsPublished: nc.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, filter, ordering)
}

func (svc *service) Update(ctx context.Context, c Course, uc UpdateCourse) (Course, error) {
	c.Title = uc.Title
	c.Description = uc.Description
	c.TutorID = uc.TutorID
	if uc.IsPublished != nil {
		c.IsPublished = *uc.IsPublished
	}
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, c)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}

func (svc *service) AddModule(ctx context.Context, courseID string, nm NewModule) (Module, error) {
	if _, err := svc.repo.GetCourse(ctx, courseID); err != nil {
		return Module{}, err
	}

	seq, err := svc.Sequence(ctx, courseID)
	if err != nil {
		return Module{}, err
	}
	for _, m := range seq {
		if m.Order == *nm.Order {
			return Module{}, ErrModuleOrderTaken
		}
	}

	now := time.Now().UTC()
	return svc.repo.CreateModule(ctx, Module{
		CourseID:    courseID,
		Title:       nm.Title,
		Description: nm.Description,
		Order:       *nm.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) GetModule(ctx context.Context, id string) (Module, error) {
	return svc.repo.GetModule(ctx, id)
}

func (svc *service) Sequence(ctx context.Context, courseID string) (Sequence, error) {
	mods, err := svc.repo.QueryModules(ctx, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying modules")
	}
	return NewSequence(mods), nil
}

func (svc *service) NextModule(ctx context.Context, mod Module) (Module, bool, error) {
	next, err := svc.repo.GetNextModule(ctx, mod.CourseID, mod.Order)
	if err != nil {
		if errors.Cause(err) == ErrModuleNotFound {
			return Module{}, false, nil
		}
		return Module{}, false, errors.Wrap(err, "finding next module")
	}
	return next, true, nil
}

func (svc *service) FirstModule(ctx context.Context, courseID string) (Module, bool, error) {
	seq, err := svc.Sequence(ctx, courseID)
	if err != nil {
		return Module{}, false, err
	}
	first, ok := seq.First()
	return first, ok, nil
}

func (svc *service) DeleteModule(ctx context.Context, id string) error {
	return svc.repo.DeleteModule(ctx, id)
}
