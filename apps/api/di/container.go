// Package di wires the API dependencies in a dig.Container.
package di

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/certificate"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/enquiry"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/quiz"
	"github.com/trezcool/academia/core/testimonial"
	"github.com/trezcool/academia/core/user"
	emailsvc "github.com/trezcool/academia/services/email"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database"
	boiledrepos "github.com/trezcool/academia/storage/database/sqlboiler"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(os.Stdout, "API : ", log.LstdFlags), conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sql.DB, core.DB) {
	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db, conf.Database.Engine); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

type repositories struct {
	dig.Out

	Users        user.Repository
	Courses      course.Repository
	Progress     progress.Repository
	Enrollments  enrollment.Repository
	Certificates certificate.Repository
	Quizzes      quiz.Repository
	Enquiries    enquiry.Repository
	Testimonials testimonial.Repository
}

func newRepositories(db core.DB, conf *core.Config) repositories {
	engine := conf.Database.Engine
	return repositories{
		Users:        boiledrepos.NewUserRepository(db, engine),
		Courses:      boiledrepos.NewCourseRepository(db, engine),
		Progress:     boiledrepos.NewProgressRepository(db, engine),
		Enrollments:  boiledrepos.NewEnrollmentRepository(db, engine),
		Certificates: boiledrepos.NewCertificateRepository(db, engine),
		Quizzes:      boiledrepos.NewQuizRepository(db, engine),
		Enquiries:    boiledrepos.NewEnquiryRepository(db, engine),
		Testimonials: boiledrepos.NewTestimonialRepository(db, engine),
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// newValidation returns the validator with every domain tag and its english translations registered.
func newValidation() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()

	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	quiz.InitValidators(validate, translator)
	certificate.InitValidators(validate, translator)
	enrollment.InitValidators(validate, translator)
	return validate, translator
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

	UserSvc        user.ServiceInterface
	CourseSvc      course.ServiceInterface
	ProgressSvc    progress.ServiceInterface
	QuizSvc        quiz.ServiceInterface
	CertificateSvc certificate.ServiceInterface
	EnrollmentSvc  enrollment.ServiceInterface
	EnquirySvc     enquiry.ServiceInterface
	TestimonialSvc testimonial.ServiceInterface
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:           p.Conf,
		Logger:         p.Logger,
		Validate:       p.Validate,
		Translator:     p.Translator,
		UserSvc:        p.UserSvc,
		CourseSvc:      p.CourseSvc,
		ProgressSvc:    p.ProgressSvc,
		QuizSvc:        p.QuizSvc,
		CertificateSvc: p.CertificateSvc,
		EnrollmentSvc:  p.EnrollmentSvc,
		EnquirySvc:     p.EnquirySvc,
		TestimonialSvc: p.TestimonialSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(newValidation))

	must(c.Provide(user.NewService))
	must(c.Provide(course.NewService))
	must(c.Provide(progress.NewService))
	must(c.Provide(enrollment.NewService))
	must(c.Provide(certificate.NewService))
	must(c.Provide(quiz.NewService))
	must(c.Provide(enquiry.NewService))
	must(c.Provide(testimonial.NewService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
