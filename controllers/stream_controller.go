package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Vivek-Rav/yawye/services"
)

type StreamController struct {
	hub *services.RealtimeHub
}

func NewStreamController(hub *services.RealtimeHub) *StreamController {
	return &StreamController{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

// GET /api/scan/stream
//
// Pushes scan.created events for the authenticated user until the client
// disconnects.
func (st *StreamController) ScansWS(c *gin.Context) {
	uid := c.GetString("userID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{UserID: uid, Conn: conn}
	st.hub.Register(cl)

	// ping to keep connections alive through some proxies; goes through the
	// client's write lock so it cannot collide with a broadcast
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := cl.Ping(); err != nil {
				st.hub.Unregister(cl)
				return
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			st.hub.Unregister(cl)
			return
		}
	}
}
