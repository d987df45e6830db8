package realtime

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/newsline-app/newsline/models"
	"github.com/newsline-app/newsline/store"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Reactor applies the reaction mutations a session may request over the
// socket. Satisfied by services.NewsService.
type Reactor interface {
	Like(ctx context.Context, id uint) (*models.Article, error)
	Dislike(ctx context.Context, id uint) (*models.Article, error)
	View(ctx context.Context, id uint) (*models.Article, error)
}

// Command is the client-to-server message shape.
type Command struct {
	Action string `json:"action"`
	ID     uint   `json:"id"`
}

const (
	ActionLike    = "likeNews"
	ActionDislike = "dislikeNews"
	ActionView    = "viewNews"
)

// ServeWS upgrades the connection, subscribes it to the hub, streams events
// to the peer, and routes reaction commands through the gateway. The
// subscription is released on every exit path.
func ServeWS(hub *Hub, reactor Reactor, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorw("websocket upgrade", "err", err)
			return
		}

		sub := hub.Subscribe()
		defer sub.Cancel()
		defer conn.Close()

		go func() {
			for event := range sub.C {
				if err := conn.WriteJSON(event); err != nil {
					conn.Close()
					return
				}
			}
			// Hub cancelled the subscription; drop the peer too.
			conn.Close()
		}()

		for {
			var cmd Command
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			if err := apply(c.Request.Context(), reactor, cmd); err != nil && !errors.Is(err, store.ErrNotFound) {
				logger.Errorw("apply socket command", "action", cmd.Action, "id", cmd.ID, "err", err)
			}
		}
	}
}

func apply(ctx context.Context, reactor Reactor, cmd Command) error {
	switch cmd.Action {
	case ActionLike:
		_, err := reactor.Like(ctx, cmd.ID)
		return err
	case ActionDislike:
		_, err := reactor.Dislike(ctx, cmd.ID)
		return err
	case ActionView:
		_, err := reactor.View(ctx, cmd.ID)
		return err
	}
	return nil
}
