package enquiry

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("enquiry not found")
)

type (
	Repository interface {
		CreateEnquiry(ctx context.Context, enq Enquiry) (Enquiry, error)
		GetEnquiry(ctx context.Context, id string) (Enquiry, error)
		// QueryEnquiries returns the matching enquiries, most recent first.
		QueryEnquiries(ctx context.Context, filter *QueryFilter) ([]Enquiry, error)
		UpdateEnquiry(ctx context.Context, enq Enquiry) (Enquiry, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, ne NewEnquiry) (Enquiry, error)
		GetByID(ctx context.Context, id string) (Enquiry, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Enquiry, error)
		UpdateStatus(ctx context.Context, enq Enquiry, status Status) (Enquiry, error)
		Convert(ctx context.Context, enquiryID, courseID string) (Conversion, error)
	}

	service struct {
		repo          Repository
		usrSvc        user.ServiceInterface
		courseSvc     course.ServiceInterface
		enrollmentSvc enrollment.ServiceInterface
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(
	repo Repository,
	usrSvc user.ServiceInterface,
	courseSvc course.ServiceInterface,
	enrollmentSvc enrollment.ServiceInterface,
) ServiceInterface {
	return &service{repo: repo, usrSvc: usrSvc, courseSvc: courseSvc, enrollmentSvc: enrollmentSvc}
}

func (svc *service) Create(ctx context.Context, ne NewEnquiry) (Enquiry, error) {
	if ne.CourseID != "" {
		if _, err := svc.courseSvc.GetByID(ctx, ne.CourseID); err != nil {
			if errors.Cause(err) == course.ErrNotFound {
				return Enquiry{}, core.NewValidationError(err, core.FieldError{Field: "course_id", Error: "course not found"})
			}
			return Enquiry{}, err
		}
	}

	now := time.Now().UTC()
	return svc.repo.CreateEnquiry(ctx, Enquiry{
		Name:      ne.Name,
		Email:     ne.Email,
		Phone:     ne.Phone,
		CourseID:  ne.CourseID,
		Message:   ne.Message,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) GetByID(ctx context.Context, id string) (Enquiry, error) {
	return svc.repo.GetEnquiry(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Enquiry, error) {
	return svc.repo.QueryEnquiries(ctx, filter)
}

// UpdateStatus resolves or rejects an enquiry. CONVERTED is only reachable through Convert.
func (svc *service) UpdateStatus(ctx context.Context, enq Enquiry, status Status) (Enquiry, error) {
	if status != StatusResolved && status != StatusRejected {
		return Enquiry{}, core.NewValidationError(nil, core.FieldError{Field: "status", Error: "must be one of [RESOLVED REJECTED]"})
	}
	enq.Status = status
	enq.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEnquiry(ctx, enq)
}

// Convert turns an enquiry into an enrollment of its sender in the course.
// The sender's account is created when none exists for the enquiry email;
// an existing account only gets its empty name and phone filled in.
// Converting twice reuses the user and the enrollment.
func (svc *service) Convert(ctx context.Context, enquiryID, courseID string) (Conversion, error) {
	enq, err := svc.repo.GetEnquiry(ctx, enquiryID)
	if err != nil {
		return Conversion{}, err
	}
	if _, err = svc.courseSvc.GetByID(ctx, courseID); err != nil {
		return Conversion{}, err
	}

	usr, err := svc.findOrCreateUser(ctx, enq)
	if err != nil {
		return Conversion{}, err
	}

	enr, err := svc.enrollmentSvc.GetForUserCourse(ctx, usr.ID, courseID)
	if err != nil {
		if errors.Cause(err) != enrollment.ErrNotFound {
			return Conversion{}, errors.Wrap(err, "checking enrollment")
		}
		if enr, err = svc.enrollmentSvc.Create(ctx, usr.ID, courseID); err != nil {
			return Conversion{}, errors.Wrap(err, "creating enrollment")
		}
	}

	enq.Status = StatusConverted
	enq.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateEnquiry(ctx, enq); err != nil {
		return Conversion{}, errors.Wrap(err, "updating enquiry")
	}

	return Conversion{Enrollment: enr, User: usr.Summary()}, nil
}

func (svc *service) findOrCreateUser(ctx context.Context, enq Enquiry) (user.User, error) {
	usr, err := svc.usrSvc.GetByEmail(ctx, enq.Email)
	if errors.Cause(err) == user.ErrNotFound {
		usr, err = svc.usrSvc.CreateStudent(ctx, enq.Name, enq.Email, enq.Phone)
		if errors.Cause(err) != user.ErrEmailExists {
			return usr, err
		}
		// created by a concurrent conversion
		usr, err = svc.usrSvc.GetByEmail(ctx, enq.Email)
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting user by email")
	}

	var changed bool
	if usr.Phone == "" && enq.Phone != "" {
		usr.Phone = enq.Phone
		changed = true
	}
	if usr.Name == "" && enq.Name != "" {
		usr.Name = enq.Name
		changed = true
	}
	if changed {
		if usr, err = svc.usrSvc.Save(ctx, usr); err != nil {
			return user.User{}, errors.Wrap(err, "updating user contact")
		}
	}
	return usr, nil
}
