package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/almaconnect/alumnet/core/job"
)

type jobApi struct {
	svc      *job.Service
	validate *validator.Validate
}

func registerJobAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *job.Service, validate *validator.Validate) {
	api := jobApi{svc: svc, validate: validate}

	jg := g.Group("/jobs", jwt)
	jg.GET("", api.queryJobs)
	jg.POST("", api.createJob, institutionMiddleware())
	jg.POST("/:id/applications", api.apply)
	jg.GET("/:id/applications", api.queryApplications, institutionMiddleware())

	rg := g.Group("/referrals", jwt)
	rg.GET("", api.queryReferrals)
	rg.POST("", api.postReferral)
	rg.DELETE("/:id", api.deleteReferral)
}

func (api *jobApi) queryJobs(ctx echo.Context) error {
	jobs, err := api.svc.QueryJobs(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, jobs)
}

func (api *jobApi) createJob(ctx echo.Context) error {
	data := new(job.NewJob)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	j, err := api.svc.CreateJob(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, j)
}

func (api *jobApi) apply(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	data := new(job.NewApplication)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	data.JobID = ctx.Param("id")
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	app, err := api.svc.Apply(ctx.Request().Context(), claims.Subject, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *jobApi) queryApplications(ctx echo.Context) error {
	apps, err := api.svc.QueryApplications(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *jobApi) queryReferrals(ctx echo.Context) error {
	refs, err := api.svc.QueryReferrals(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, refs)
}

func (api *jobApi) postReferral(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	data := new(job.NewReferral)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ref, err := api.svc.PostReferral(ctx.Request().Context(), claims.Subject, claims.Email, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ref)
}

func (api *jobApi) deleteReferral(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteReferral(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
