package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/user"
)

var errEnrollmentNotFoundInCtx = errors.New("enrollment object not found in echo.Context")

type enrollmentApi struct {
	svc      enrollment.ServiceInterface
	validate *validator.Validate
}

func registerEnrollmentAPI(g *echo.Group, authed echo.MiddlewareFunc, deps ServerDeps) {
	api := enrollmentApi{svc: deps.EnrollmentSvc, validate: deps.Validate}

	eg := g.Group("/enrollments", authed)
	eg.POST("", api.enroll)
	eg.GET("", api.query)

	dg := eg.Group("/:id", requireCapability(user.CapManageEnrollments), enrollmentMiddleware(api.svc))
	dg.PUT("/status", api.updateStatus)
	dg.PUT("/payment", api.updatePaymentStatus)
}

// Handlers

func (api *enrollmentApi) enroll(ctx echo.Context) error {
	var data enrollment.NewEnrollment
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}
	enr, err := api.svc.Enroll(ctx.Request().Context(), ctxUser(ctx).ID, data.CourseID)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

// query lists the caller's enrollments, or every enrollment matching the filter for enrollment managers.
func (api *enrollmentApi) query(ctx echo.Context) error {
	filter := new(enrollment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []enrollment.Enrollment{})
	}
	if caller := ctxUser(ctx); !caller.Can(user.CapManageEnrollments) {
		filter.UserID = caller.ID
	}

	enrs, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrs == nil {
		enrs = []enrollment.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *enrollmentApi) updateStatus(ctx echo.Context) error {
	enr, err := ctxEnrollment(ctx)
	if err != nil {
		return err
	}
	var data enrollment.UpdateStatus
	if err = bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}

	enr, err = api.svc.UpdateStatus(ctx.Request().Context(), enr, data.Status)
	if err != nil {
		return errors.Wrap(err, "updating enrollment status")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) updatePaymentStatus(ctx echo.Context) error {
	enr, err := ctxEnrollment(ctx)
	if err != nil {
		return err
	}
	var data enrollment.UpdatePaymentStatus
	if err = bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}

	enr, err = api.svc.UpdatePaymentStatus(ctx.Request().Context(), enr, data.PaymentStatus)
	if err != nil {
		return errors.Wrap(err, "updating payment status")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func enrollmentMiddleware(svc enrollment.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			enr, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return err
			}
			ctx.Set("object", enr)
			return next(ctx)
		}
	}
}

func ctxEnrollment(ctx echo.Context) (enrollment.Enrollment, error) {
	enr, ok := ctx.Get("object").(enrollment.Enrollment)
	if !ok {
		return enrollment.Enrollment{}, errors.Wrap(errEnrollmentNotFoundInCtx, "retrieving object from context")
	}
	return enr, nil
}
