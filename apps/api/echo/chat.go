package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/chat"
	"github.com/almaconnect/alumnet/core/profile"
)

type chatApi struct {
	svc        *chat.Service
	profileSvc *profile.Service
	resolver   *profile.Resolver
	logger     core.Logger
	validate   *validator.Validate
}

func registerChatAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *chat.Service, profileSvc *profile.Service, resolver *profile.Resolver, logger core.Logger, validate *validator.Validate) {
	api := chatApi{svc: svc, profileSvc: profileSvc, resolver: resolver, logger: logger, validate: validate}

	cg := g.Group("/chat", jwt)
	cg.GET("/groups", api.groups)
	cg.GET("/directory", api.directory)
	cg.GET("/directory/ws", api.directoryStream)
	cg.POST("/personal", api.startPersonal)
	cg.GET("/conversations/:id/messages", api.messages)
	cg.POST("/conversations/:id/messages", api.send)
	cg.GET("/conversations/:id/ws", api.messageStream)
}

// groups derives the caller's standing groups from their alumni profile.
// Accounts without a department get an empty set, not an error.
func (api *chatApi) groups(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	alum, err := api.profileSvc.GetAlumni(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == profile.ErrNotFound {
			return ctx.JSON(http.StatusOK, chat.GroupSet{})
		}
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Groups(alum))
}

// directory returns a one-shot snapshot of the caller's conversation list,
// optionally filtered by ?search=.
func (api *chatApi) directory(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	sub, err := api.svc.OpenDirectory(reqCtx, claims.Subject)
	if err != nil {
		return err
	}
	defer sub.Close()

	var summaries []chat.ConversationSummary
	select {
	case s, ok := <-sub.C:
		if !ok {
			// the stream died before its first snapshot; a store outage
			// must not read as a user with no conversations
			return chat.ErrUnavailable
		}
		summaries = s
	case <-reqCtx.Done():
		return reqCtx.Err()
	}

	summaries = chat.Search(summaries, ctx.QueryParam("search"))
	return ctx.JSON(http.StatusOK, summaries)
}

// directoryStream pushes the caller's directory over a websocket on every
// change until the client disconnects.
func (api *chatApi) directoryStream(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	sub, err := api.svc.OpenDirectory(reqCtx, claims.Subject)
	if err != nil {
		return err
	}

	// confirm the stream is alive before upgrading, so a dead store
	// surfaces as an HTTP error rather than a socket that closes at once
	var first []chat.ConversationSummary
	select {
	case s, ok := <-sub.C:
		if !ok {
			sub.Close()
			return chat.ErrUnavailable
		}
		first = s
	case <-reqCtx.Done():
		sub.Close()
		return reqCtx.Err()
	}

	term := ctx.QueryParam("search")
	return api.streamJSON(ctx, sub.Close, func(emit func(interface{}) error) error {
		if err := emit(chat.Search(first, term)); err != nil {
			return err
		}
		for summaries := range sub.C {
			if err := emit(chat.Search(summaries, term)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (api *chatApi) startPersonal(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	data := new(struct {
		OtherID string `json:"other_id" validate:"required"`
	})
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	viewer := api.resolver.Resolve(reqCtx, claims.Subject)
	other := api.resolver.Resolve(reqCtx, data.OtherID)
	conv := api.svc.StartPersonal(claims.Subject, viewer.DisplayName, other)
	return ctx.JSON(http.StatusOK, conv)
}

func (api *chatApi) messages(ctx echo.Context) error {
	if _, err := getContextClaims(ctx); err != nil {
		return err
	}
	msgs, err := api.svc.Messages(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *chatApi) send(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	data := new(struct {
		Content string `json:"content"`
	})
	if err = ctx.Bind(data); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	sender := api.resolver.Resolve(reqCtx, claims.Subject)
	sm := chat.SendMessage{
		ConversationID: ctx.Param("id"),
		SenderID:       claims.Subject,
		SenderName:     sender.DisplayName,
		Content:        data.Content,
	}
	if err = api.svc.Send(reqCtx, sm); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusCreated)
}

// messageStream opens one conversation as a live websocket stream. The
// per-connection view guarantees the previous stream is torn down before a
// replacement opens.
func (api *chatApi) messageStream(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	convID := ctx.Param("id")
	view := chat.NewView(api.svc)
	view.SignIn(claims.Subject)
	defer view.SignOut()

	reqCtx := ctx.Request().Context()
	sub, err := view.Select(reqCtx, convID, chat.KindOf(convID))
	if err != nil {
		return err
	}

	// same liveness check as the directory stream; SignOut tears the
	// subscription down on the error paths
	var first []chat.Message
	select {
	case msgs, ok := <-sub.C:
		if !ok {
			return chat.ErrUnavailable
		}
		first = msgs
	case <-reqCtx.Done():
		return reqCtx.Err()
	}

	return api.streamJSON(ctx, view.Back, func(emit func(interface{}) error) error {
		if err := emit(first); err != nil {
			return err
		}
		for msgs := range sub.C {
			if err := emit(msgs); err != nil {
				return err
			}
		}
		return nil
	})
}
