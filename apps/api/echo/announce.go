package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/almaconnect/alumnet/core/announce"
)

type announceApi struct {
	svc      *announce.Service
	validate *validator.Validate
}

func registerAnnounceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *announce.Service, validate *validator.Validate) {
	api := announceApi{svc: svc, validate: validate}

	ag := g.Group("/announcements", jwt)
	ag.GET("", api.queryAnnouncements)
	ag.POST("", api.createAnnouncement, institutionMiddleware())
	ag.DELETE("/:id", api.deleteAnnouncement, institutionMiddleware())

	dg := g.Group("/donations", jwt)
	dg.GET("", api.queryCampaigns)
	dg.POST("", api.createCampaign, institutionMiddleware())
	dg.POST("/:id/toggle", api.toggleCampaign, institutionMiddleware())
	dg.DELETE("/:id", api.deleteCampaign, institutionMiddleware())
	dg.POST("/:id/pledges", api.recordPledge)
}

func (api *announceApi) queryAnnouncements(ctx echo.Context) error {
	anns, err := api.svc.QueryAnnouncements(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, anns)
}

func (api *announceApi) createAnnouncement(ctx echo.Context) error {
	data := new(struct {
		announce.NewAnnouncement
		Notify []string `json:"notify" validate:"omitempty,dive,email"`
	})
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	if err := data.NewAnnouncement.Validate(api.validate); err != nil {
		return err
	}

	notify := make([]mail.Address, 0, len(data.Notify))
	for _, addr := range data.Notify {
		notify = append(notify, mail.Address{Address: addr})
	}

	ann, err := api.svc.CreateAnnouncement(ctx.Request().Context(), data.NewAnnouncement, notify)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *announceApi) deleteAnnouncement(ctx echo.Context) error {
	if err := api.svc.DeleteAnnouncement(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *announceApi) queryCampaigns(ctx echo.Context) error {
	camps, err := api.svc.QueryCampaigns(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, camps)
}

func (api *announceApi) createCampaign(ctx echo.Context) error {
	data := new(announce.NewCampaign)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	camp, err := api.svc.CreateCampaign(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, camp)
}

func (api *announceApi) toggleCampaign(ctx echo.Context) error {
	camp, err := api.svc.ToggleCampaign(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, camp)
}

func (api *announceApi) deleteCampaign(ctx echo.Context) error {
	if err := api.svc.DeleteCampaign(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *announceApi) recordPledge(ctx echo.Context) error {
	data := new(announce.Pledge)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	data.CampaignID = ctx.Param("id")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	camp, err := api.svc.RecordPledge(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, camp)
}
