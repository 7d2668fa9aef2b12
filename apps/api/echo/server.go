package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/certificate"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/enquiry"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/quiz"
	"github.com/trezcool/academia/core/testimonial"
	"github.com/trezcool/academia/core/user"
)

type (
	ServerDeps struct {
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

	Server struct {
		*http.Server
		app      *echo.Echo
		deps     ServerDeps
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	app := echo.New()
	s := &Server{
		Server: &http.Server{
			Addr:    deps.Conf.Server.Host,
			Handler: app,
		},
		app:      app,
		deps:     deps,
		auth:     newAuthenticator(deps.Conf, deps.UserSvc),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", s.home)

	g := s.app.Group("/api")
	authed := s.auth.middleware()
	optional := s.auth.optional()

	registerUserAPI(g, authed, s.auth, s.deps)
	registerCourseAPI(g, authed, optional, s.deps)
	registerLearningAPI(g, authed, s.deps)
	registerCertificateAPI(g, authed, s.deps)
	registerEnrollmentAPI(g, authed, s.deps)
	registerEnquiryAPI(g, authed, s.deps)
	registerTestimonialAPI(g, authed, s.deps)
}

// Start listens until the server is shut down; listener errors are sent to Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.deps.Logger.Info("API listening on " + s.Addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.Server.Shutdown(ctx)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
