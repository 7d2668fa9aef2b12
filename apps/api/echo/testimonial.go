package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/testimonial"
	"github.com/trezcool/academia/core/user"
)

type testimonialApi struct {
	svc      testimonial.ServiceInterface
	validate *validator.Validate
}

func registerTestimonialAPI(g *echo.Group, authed echo.MiddlewareFunc, deps ServerDeps) {
	api := testimonialApi{svc: deps.TestimonialSvc, validate: deps.Validate}

	tg := g.Group("/testimonials")
	tg.GET("", api.queryPublished)
	tg.POST("", api.create, authed)

	moderate := []echo.MiddlewareFunc{authed, requireCapability(user.CapModerateTestimonials)}
	tg.GET("/all", api.query, moderate...)
	tg.PUT("/:id/publish", api.setPublished, moderate...)
	tg.DELETE("/:id", api.destroy, moderate...)
}

// Handlers

func (api *testimonialApi) queryPublished(ctx echo.Context) error {
	tms, err := api.svc.QueryPublished(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying published testimonials")
	}
	if tms == nil {
		tms = []testimonial.Testimonial{}
	}
	return ctx.JSON(http.StatusOK, tms)
}

func (api *testimonialApi) create(ctx echo.Context) error {
	var data testimonial.NewTestimonial
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}
	tm, err := api.svc.Create(ctx.Request().Context(), ctxUser(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating testimonial")
	}
	return ctx.JSON(http.StatusCreated, tm)
}

func (api *testimonialApi) query(ctx echo.Context) error {
	filter := new(testimonial.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []testimonial.Testimonial{})
	}
	tms, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying testimonials")
	}
	if tms == nil {
		tms = []testimonial.Testimonial{}
	}
	return ctx.JSON(http.StatusOK, tms)
}

func (api *testimonialApi) setPublished(ctx echo.Context) error {
	var data testimonial.SetPublished
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	tm, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	if tm, err = api.svc.SetPublished(rctx, tm, *data.IsPublished); err != nil {
		return errors.Wrap(err, "publishing testimonial")
	}
	return ctx.JSON(http.StatusOK, tm)
}

func (api *testimonialApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
