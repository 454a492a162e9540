package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ikkim/reviewhub-backend/internal/middleware"
	"github.com/ikkim/reviewhub-backend/internal/realtime"
)

// FeedController 실시간 활동 피드 WebSocket 엔드포인트
type FeedController struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewFeedController(hub *realtime.Hub, allowedOrigins []string) *FeedController {
	return &FeedController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

// Connect upgrades the connection and joins the feed
// GET /ws/feed (token via query parameter or cookie)
func (ctrl *FeedController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := realtime.NewClient(ctrl.hub, conn, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Feed connection established", map[string]interface{}{
		"user_id": userID,
	})
}
