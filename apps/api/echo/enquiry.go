package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/enquiry"
	"github.com/trezcool/academia/core/user"
)

type enquiryApi struct {
	svc      enquiry.ServiceInterface
	validate *validator.Validate
}

func registerEnquiryAPI(g *echo.Group, authed echo.MiddlewareFunc, deps ServerDeps) {
	api := enquiryApi{svc: deps.EnquirySvc, validate: deps.Validate}

	eg := g.Group("/enquiries")
	// TODO: rate limit public enquiries
	eg.POST("", api.create)

	manage := []echo.MiddlewareFunc{authed, requireCapability(user.CapManageEnquiries)}
	eg.GET("", api.query, manage...)
	eg.PUT("/:id/status", api.updateStatus, manage...)
	eg.POST("/:id/convert", api.convert, manage...)
}

// Handlers

func (api *enquiryApi) create(ctx echo.Context) error {
	var data enquiry.NewEnquiry
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}
	enq, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating enquiry")
	}
	return ctx.JSON(http.StatusCreated, enq)
}

func (api *enquiryApi) query(ctx echo.Context) error {
	filter := new(enquiry.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []enquiry.Enquiry{})
	}
	filter.Clean()

	enqs, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying enquiries")
	}
	if enqs == nil {
		enqs = []enquiry.Enquiry{}
	}
	return ctx.JSON(http.StatusOK, enqs)
}

func (api *enquiryApi) updateStatus(ctx echo.Context) error {
	var data enquiry.UpdateStatus
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	enq, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	if enq, err = api.svc.UpdateStatus(rctx, enq, data.Status); err != nil {
		return errors.Wrap(err, "updating enquiry status")
	}
	return ctx.JSON(http.StatusOK, enq)
}

func (api *enquiryApi) convert(ctx echo.Context) error {
	var data enquiry.Convert
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}
	conv, err := api.svc.Convert(ctx.Request().Context(), ctx.Param("id"), data.CourseID)
	if err != nil {
		return errors.Wrap(err, "converting enquiry")
	}
	return ctx.JSON(http.StatusOK, conv)
}
