package echoapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // auth is JWT-based
}

// streamJSON upgrades the request and runs produce, which pushes values
// through emit until its source channel closes or the peer goes away.
// teardown always runs, closing whatever subscription feeds the stream.
func (api *chatApi) streamJSON(ctx echo.Context, teardown func(), produce func(emit func(interface{}) error) error) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer teardown()

	// reader pump: a client close must unblock the writer side
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				teardown()
				return
			}
		}
	}()

	emit := func(v interface{}) error {
		return conn.WriteJSON(v)
	}
	if err = produce(emit); err != nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			api.logger.Debug(fmt.Sprintf("websocket stream ended: %v", err))
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return nil
}
