package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/user"
)

var errCourseNotFoundInCtx = errors.New("course object not found in echo.Context")

type courseApi struct {
	svc      course.ServiceInterface
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, authed, optional echo.MiddlewareFunc, deps ServerDeps) {
	api := courseApi{svc: deps.CourseSvc, validate: deps.Validate}
	manage := requireCapability(user.CapManageCourses)

	cg := g.Group("/courses")
	cg.GET("", api.query, optional)
	cg.POST("", api.create, authed, manage)

	dg := cg.Group("/:id", optional, courseMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.GET("/modules", api.queryModules)
	dg.PUT("", api.update, authed, manage, courseEditorMiddleware)
	dg.DELETE("", api.destroy, authed, manage, courseEditorMiddleware)
	dg.POST("/modules", api.addModule, authed, manage, courseEditorMiddleware)

	g.DELETE("/modules/:id", api.destroyModule, authed, manage)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}
	if caller := ctxUser(ctx); caller.IsTutor() {
		data.TutorID = caller.ID
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) query(ctx echo.Context) error {
	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.Course{})
	}
	filter.Clean()
	if caller := ctxUser(ctx); !caller.Can(user.CapManageCourses) {
		published := true
		filter.IsPublished = &published
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	courses, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	c, err := ctxCourse(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	c, err := ctxCourse(ctx)
	if err != nil {
		return err
	}

	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err = data.Validate(c, api.validate); err != nil {
		return err
	}

	c, err = api.svc.Update(ctx.Request().Context(), c, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	c, err := ctxCourse(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), c.ID); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) queryModules(ctx echo.Context) error {
	c, err := ctxCourse(ctx)
	if err != nil {
		return err
	}
	seq, err := api.svc.Sequence(ctx.Request().Context(), c.ID)
	if err != nil {
		return errors.Wrap(err, "listing modules")
	}
	return ctx.JSON(http.StatusOK, seq)
}

func (api *courseApi) addModule(ctx echo.Context) error {
	c, err := ctxCourse(ctx)
	if err != nil {
		return err
	}

	var data course.NewModule
	if err = bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}
	m, err := api.svc.AddModule(ctx.Request().Context(), c.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding module")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *courseApi) destroyModule(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	m, err := api.svc.GetModule(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	c, err := api.svc.GetByID(rctx, m.CourseID)
	if err != nil {
		return err
	}
	if !canEditCourse(ctxUser(ctx), c) {
		return errHttpForbidden
	}
	if err = api.svc.DeleteModule(rctx, m.ID); err != nil {
		return errors.Wrap(err, "deleting module")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// courseMiddleware loads the :id course as "object". Unpublished courses are only visible to course managers.
func courseMiddleware(svc course.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			c, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == course.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding course by ID")
			}
			if caller := ctxUser(ctx); !c.IsPublished && !caller.Can(user.CapManageCourses) {
				return errHttpNotFound
			}
			ctx.Set("object", c)
			return next(ctx)
		}
	}
}

func courseEditorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		c, err := ctxCourse(ctx)
		if err != nil {
			return err
		}
		if !canEditCourse(ctxUser(ctx), c) {
			return errHttpForbidden
		}
		return next(ctx)
	}
}

// canEditCourse reports whether usr may change c: admins edit every course, tutors their own.
func canEditCourse(usr user.User, c course.Course) bool {
	return usr.IsAdmin() || (usr.IsTutor() && c.TutorID == usr.ID)
}

func ctxCourse(ctx echo.Context) (course.Course, error) {
	c, ok := ctx.Get("object").(course.Course)
	if !ok {
		return course.Course{}, errors.Wrap(errCourseNotFoundInCtx, "retrieving object from context")
	}
	return c, nil
}
