package testutil

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/certificate"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/enquiry"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/quiz"
	"github.com/trezcool/academia/core/testimonial"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/fs"
	"github.com/trezcool/academia/services/email"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
	boiledrepos "github.com/trezcool/academia/storage/database/sqlboiler"
)

// Services wires every domain service on a fresh database,
// with a synchronous console mail service.
type Services struct {
	Conf   *core.Config
	Logger core.Logger
	Mail   core.EmailService

	UserRepo   user.Repository
	CourseRepo course.Repository

	Users        user.ServiceInterface
	Courses      course.ServiceInterface
	Progress     progress.ServiceInterface
	Enrollments  enrollment.ServiceInterface
	Certificates certificate.ServiceInterface
	Quizzes      quiz.ServiceInterface
	Enquiries    enquiry.ServiceInterface
	Testimonials testimonial.ServiceInterface
}

// NewServices wires the services on the in-memory repositories.
func NewServices(t *testing.T) *Services {
	t.Helper()

	db := inmemdb.Open()
	return newServices(t, repositories{
		users:        inmemdb.NewUserRepository(db),
		courses:      inmemdb.NewCourseRepository(db),
		progress:     inmemdb.NewProgressRepository(db),
		enrollments:  inmemdb.NewEnrollmentRepository(db),
		certificates: inmemdb.NewCertificateRepository(db),
		quizzes:      inmemdb.NewQuizRepository(db),
		enquiries:    inmemdb.NewEnquiryRepository(db),
		testimonials: inmemdb.NewTestimonialRepository(db),
	})
}

// NewSQLServices wires the services on the SQL repositories over a fresh PrepareDB database.
func NewSQLServices(t *testing.T) *Services {
	t.Helper()

	db := PrepareDB(t)
	return newServices(t, repositories{
		users:        boiledrepos.NewUserRepository(db, Engine),
		courses:      boiledrepos.NewCourseRepository(db, Engine),
		progress:     boiledrepos.NewProgressRepository(db, Engine),
		enrollments:  boiledrepos.NewEnrollmentRepository(db, Engine),
		certificates: boiledrepos.NewCertificateRepository(db, Engine),
		quizzes:      boiledrepos.NewQuizRepository(db, Engine),
		enquiries:    boiledrepos.NewEnquiryRepository(db, Engine),
		testimonials: boiledrepos.NewTestimonialRepository(db, Engine),
	})
}

type repositories struct {
	users        user.Repository
	courses      course.Repository
	progress     progress.Repository
	enrollments  enrollment.Repository
	certificates certificate.Repository
	quizzes      quiz.Repository
	enquiries    enquiry.Repository
	testimonials testimonial.Repository
}

func newServices(t *testing.T, repos repositories) *Services {
	t.Helper()

	conf := core.NewTestConfig()
	logger := NopLogger()
	core.ParseEmailTemplates(appfs.FS, conf, logger)
	emailsvc.ClearSentMessages()

	s := &Services{
		Conf:       conf,
		Logger:     logger,
		Mail:       emailsvc.NewConsoleServiceMock(conf, logger),
		UserRepo:   repos.users,
		CourseRepo: repos.courses,
	}
	s.Users = user.NewServiceMock(repos.users, s.Mail, conf)
	s.Courses = course.NewService(repos.courses)
	s.Progress = progress.NewService(repos.progress)
	s.Enrollments = enrollment.NewService(repos.enrollments, s.Courses, s.Progress)
	s.Certificates = certificate.NewService(repos.certificates, s.Users, s.Courses, s.Enrollments, s.Mail, conf, logger)
	s.Quizzes = quiz.NewService(repos.quizzes, s.Courses, s.Progress, s.Certificates)
	s.Enquiries = enquiry.NewService(repos.enquiries, s.Users, s.Courses, s.Enrollments)
	s.Testimonials = testimonial.NewService(repos.testimonials)
	return s
}

// NewValidate returns a validator with every domain tag and translation registered.
func NewValidate() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	quiz.InitValidators(validate, translator)
	certificate.InitValidators(validate, translator)
	enrollment.InitValidators(validate, translator)
	return validate, translator
}
