package certificate

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/user"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("certificate not found")
	ErrAlreadyIssued = core.NewConflictError("certificate already issued")
	ErrNotEnrolled   = core.NewValidationError(nil, core.FieldError{
		Field: "course_id",
		Error: "user has no active or completed enrollment in this course",
	})
)

type (
	Repository interface {
		// CreateCertificate returns ErrAlreadyIssued when the (user, course, type) certificate exists.
		CreateCertificate(ctx context.Context, cert Certificate) (Certificate, error)
		GetByCertificateID(ctx context.Context, certificateID string) (Certificate, error)
		FindForUserCourse(ctx context.Context, userID, courseID string, typ Type) (Certificate, error)
		QueryForUser(ctx context.Context, userID string) ([]Certificate, error)
	}

	ServiceInterface interface {
		// Issue returns the (user, course, type) certificate, creating it when absent.
		Issue(ctx context.Context, userID, courseID string, typ Type) (Certificate, error)
		// IssueForEnrollment issues a certificate to a user whose enrollment is active or completed.
		IssueForEnrollment(ctx context.Context, nc NewCertificate) (Certificate, error)
		Verify(ctx context.Context, certificateID string) (Certificate, error)
		QueryForUser(ctx context.Context, userID string) ([]Certificate, error)
	}

	service struct {
		repo          Repository
		usrSvc        user.ServiceInterface
		courseSvc     course.ServiceInterface
		enrollmentSvc enrollment.ServiceInterface
		mailSvc       core.EmailService
		conf          *core.Config
		logger        core.Logger
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(
	repo Repository,
	usrSvc user.ServiceInterface,
	courseSvc course.ServiceInterface,
	enrollmentSvc enrollment.ServiceInterface,
	mailSvc core.EmailService,
	conf *core.Config,
	logger core.Logger,
) ServiceInterface {
	return &service{
		repo:          repo,
		usrSvc:        usrSvc,
		courseSvc:     courseSvc,
		enrollmentSvc: enrollmentSvc,
		mailSvc:       mailSvc,
		conf:          conf,
		logger:        logger,
	}
}

func (svc *service) Issue(ctx context.Context, userID, courseID string, typ Type) (Certificate, error) {
	cert, err := svc.repo.FindForUserCourse(ctx, userID, courseID, typ)
	if err == nil {
		return cert, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Certificate{}, errors.Wrap(err, "checking existing certificate")
	}

	now := time.Now().UTC()
	certID, err := NewCertificateID(svc.conf.CertificatePrefix, now)
	if err != nil {
		return Certificate{}, errors.Wrap(err, "generating certificate id")
	}
	cert, err = svc.repo.CreateCertificate(ctx, Certificate{
		CertificateID: certID,
		UserID:        userID,
		CourseID:      courseID,
		Type:          typ,
		URL:           URLFor(svc.conf.FrontendBaseURL, certID),
		IssuedAt:      now,
	})
	if err != nil {
		if errors.Cause(err) == ErrAlreadyIssued {
			// lost a concurrent issuance: the first writer's row wins
			return svc.repo.FindForUserCourse(ctx, userID, courseID, typ)
		}
		return Certificate{}, errors.Wrap(err, "creating certificate")
	}

	svc.notify(ctx, cert)
	return cert, nil
}

func (svc *service) IssueForEnrollment(ctx context.Context, nc NewCertificate) (Certificate, error) {
	enr, err := svc.enrollmentSvc.GetForUserCourse(ctx, nc.UserID, nc.CourseID)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return Certificate{}, ErrNotEnrolled
		}
		return Certificate{}, errors.Wrap(err, "getting enrollment")
	}
	if !enr.Grants() {
		return Certificate{}, ErrNotEnrolled
	}
	return svc.Issue(ctx, nc.UserID, nc.CourseID, nc.Type)
}

func (svc *service) Verify(ctx context.Context, certificateID string) (Certificate, error) {
	return svc.repo.GetByCertificateID(ctx, core.CleanString(certificateID))
}

func (svc *service) QueryForUser(ctx context.Context, userID string) ([]Certificate, error) {
	return svc.repo.QueryForUser(ctx, userID)
}

type issuedData struct {
	Name          string
	CourseTitle   string
	CertificateID string
	URL           string
}

// notify emails the holder; failures are logged since the certificate is already stored.
func (svc *service) notify(ctx context.Context, cert Certificate) {
	usr, err := svc.usrSvc.GetByID(ctx, cert.UserID)
	if err != nil {
		svc.logger.Error("certificate.notify: getting user", errors.WithStack(err))
		return
	}
	crs, err := svc.courseSvc.GetByID(ctx, cert.CourseID)
	if err != nil {
		svc.logger.Error("certificate.notify: getting course", errors.WithStack(err))
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Your certificate for " + crs.Title,
		TemplateName: "certificate_issued",
		TemplateData: issuedData{
			Name:          usr.Name,
			CourseTitle:   crs.Title,
			CertificateID: cert.CertificateID,
			URL:           cert.URL,
		},
	})
}
