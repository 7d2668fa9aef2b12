package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/certificate"
	"github.com/trezcool/academia/core/user"
)

type certificateApi struct {
	svc      certificate.ServiceInterface
	validate *validator.Validate
}

func registerCertificateAPI(g *echo.Group, authed echo.MiddlewareFunc, deps ServerDeps) {
	api := certificateApi{svc: deps.CertificateSvc, validate: deps.Validate}

	cg := g.Group("/certificates")
	cg.GET("/verify/:certificate_id", api.verify)
	cg.GET("", api.queryOwn, authed)
	cg.POST("", api.issue, authed, requireCapability(user.CapIssueCertificates))
}

// Handlers

func (api *certificateApi) verify(ctx echo.Context) error {
	cert, err := api.svc.Verify(ctx.Request().Context(), ctx.Param("certificate_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cert)
}

func (api *certificateApi) queryOwn(ctx echo.Context) error {
	certs, err := api.svc.QueryForUser(ctx.Request().Context(), ctxUser(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "querying certificates")
	}
	if certs == nil {
		certs = []certificate.Certificate{}
	}
	return ctx.JSON(http.StatusOK, certs)
}

func (api *certificateApi) issue(ctx echo.Context) error {
	var data certificate.NewCertificate
	if err := bindAndValidate(ctx, &data, api.validate); err != nil {
		return err
	}
	cert, err := api.svc.IssueForEnrollment(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "issuing certificate")
	}
	return ctx.JSON(http.StatusCreated, cert)
}
