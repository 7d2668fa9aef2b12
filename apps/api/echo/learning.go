package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/quiz"
	"github.com/trezcool/academia/core/user"
)

// learningApi serves module progress and quizzes.
type learningApi struct {
	courseSvc   course.ServiceInterface
	progressSvc progress.ServiceInterface
	quizSvc     quiz.ServiceInterface
	validate    *validator.Validate
}

func registerLearningAPI(g *echo.Group, authed echo.MiddlewareFunc, deps ServerDeps) {
	api := learningApi{
		courseSvc:   deps.CourseSvc,
		progressSvc: deps.ProgressSvc,
		quizSvc:     deps.QuizSvc,
		validate:    deps.Validate,
	}

	g.GET("/courses/:id/progress", api.courseProgress, authed)

	// route level middleware: /modules/:id is shared with the course routes
	g.POST("/modules/:id/start", api.startModule, authed)
	g.GET("/modules/:id/quiz", api.moduleQuiz, authed)
	g.POST("/modules/:id/quiz", api.createQuiz, authed, requireCapability(user.CapManageCourses))

	qg := g.Group("/quizzes/:id", authed)
	qg.GET("", api.retrieveQuiz)
	qg.GET("/attempts", api.queryAttempts)
	qg.POST("/attempts", api.submitAttempt, requireCapability(user.CapTakeQuizzes))
}

// Handlers

func (api *learningApi) courseProgress(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	c, err := api.courseSvc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	ps, err := api.progressSvc.ListForCourse(rctx, ctxUser(ctx).ID, c.ID)
	if err != nil {
		return errors.Wrap(err, "listing progress")
	}
	if ps == nil {
		ps = []progress.Progress{}
	}
	return ctx.JSON(http.StatusOK, ps)
}

func (api *learningApi) startModule(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	m, err := api.courseSvc.GetModule(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	p, err := api.progressSvc.Apply(rctx, ctxUser(ctx).ID, m.CourseID, m.ID, progress.EventStart)
	if err != nil {
		return errors.Wrap(err, "starting module")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *learningApi) moduleQuiz(ctx echo.Context) error {
	q, err := api.quizSvc.GetForModule(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, quizFor(ctxUser(ctx), q))
}

func (api *learningApi) createQuiz(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}
	q, err := api.quizSvc.Create(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *learningApi) retrieveQuiz(ctx echo.Context) error {
	q, err := api.quizSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, quizFor(ctxUser(ctx), q))
}

func (api *learningApi) submitAttempt(ctx echo.Context) error {
	var data quiz.SubmitAttempt
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}
	res, err := api.quizSvc.SubmitAttempt(ctx.Request().Context(), ctxUser(ctx).ID, ctx.Param("id"), data.Answers)
	if err != nil {
		return errors.Wrap(err, "submitting attempt")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *learningApi) queryAttempts(ctx echo.Context) error {
	attempts, err := api.quizSvc.QueryAttempts(ctx.Request().Context(), ctxUser(ctx).ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying attempts")
	}
	if attempts == nil {
		attempts = []quiz.Attempt{}
	}
	return ctx.JSON(http.StatusOK, attempts)
}

// quizFor hides the correct answers from users who may not see them.
func quizFor(usr user.User, q quiz.Quiz) quiz.Quiz {
	if usr.Can(user.CapViewAnswers) {
		return q
	}
	return q.Redacted()
}
