package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/zaqqye/pemira_backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; rely on JWT auth.
		return true
	},
}

// ResultsHandler upgrades an admin connection onto the live tally feed and
// sends the current tally immediately so the dashboard never starts blank.
func ResultsHandler(hub *ResultsHub, snapshot func() (TallyPayload, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := newResultsClient(hub, conn)
		hub.register <- client

		if payload, err := snapshot(); err == nil {
			if data, err := json.Marshal(payload); err == nil {
				client.send <- data
			}
		}

		go client.writePump()
		client.readPump()
	}
}
