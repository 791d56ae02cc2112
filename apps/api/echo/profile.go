package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/almaconnect/alumnet/core/account"
	"github.com/almaconnect/alumnet/core/profile"
)

type profileApi struct {
	svc        *profile.Service
	resolver   *profile.Resolver
	accountSvc *account.Service
	validate   *validator.Validate
}

func registerProfileAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *profile.Service, resolver *profile.Resolver, accountSvc *account.Service, validate *validator.Validate) {
	api := profileApi{svc: svc, resolver: resolver, accountSvc: accountSvc, validate: validate}

	pg := g.Group("/profiles", jwt)
	pg.GET("/me", api.retrieveOwn)
	pg.PUT("/me", api.updateOwn)
	pg.GET("/:id", api.retrieve)
}

func (api *profileApi) retrieveOwn(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.accountSvc)
	if err != nil {
		return err
	}
	if usr.IsInstitution() {
		inst, err := api.svc.GetInstitution(ctx.Request().Context(), usr.ID)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, inst)
	}
	alum, err := api.svc.GetAlumni(ctx.Request().Context(), usr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, alum)
}

func (api *profileApi) updateOwn(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.accountSvc)
	if err != nil {
		return err
	}
	if usr.IsInstitution() {
		data := new(struct {
			Name string `json:"name" validate:"required"`
		})
		if err = ctx.Bind(data); err != nil {
			return err
		}
		if err = api.validate.Struct(data); err != nil {
			return err
		}
		inst, err := api.svc.SaveInstitution(ctx.Request().Context(), usr.ID, data.Name, usr.Email)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, inst)
	}

	data := new(profile.UpdateAlumni)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	alum, err := api.svc.SaveAlumni(ctx.Request().Context(), usr.ID, usr.Email, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, alum)
}

// retrieve returns the participant projection for any account id; resolution
// failures come back as the Unknown placeholder, never an error.
func (api *profileApi) retrieve(ctx echo.Context) error {
	participant := api.resolver.Resolve(ctx.Request().Context(), ctx.Param("id"))
	return ctx.JSON(http.StatusOK, participant)
}
