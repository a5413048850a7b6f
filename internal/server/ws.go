package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const liveWriteTimeout = 10 * time.Second

// liveClientMessage is what a connection sends to manage its channel
// memberships.
type liveClientMessage struct {
	Type     string `json:"type"`
	MetricID string `json:"metric_id"`
}

// liveServerMessage is pushed for every sample on a subscribed channel.
type liveServerMessage struct {
	Type     string    `json:"type"`
	MetricID string    `json:"metric_id"`
	Value    float64   `json:"value"`
	Date     time.Time `json:"date"`
}

// LiveEvents upgrades the connection and bridges it to the broadcast
// hub: inbound subscribe/unsubscribe messages adjust memberships, and
// hub events stream out until either side closes.
func (s *Server) LiveEvents(c *gin.Context) {
	conn, err := liveUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("live upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := s.hub.NewSubscriber()
	defer sub.Close()

	done := make(chan struct{})

	// Write pump: hub events out to the socket.
	go func() {
		for {
			select {
			case <-done:
				return
			case ev := <-sub.Events():
				msg := liveServerMessage{
					Type:     "newValue",
					MetricID: ev.MetricID.String(),
					Value:    ev.Value,
					Date:     ev.Date,
				}
				conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
				if err := conn.WriteJSON(msg); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()
	defer close(done)

	// Read loop: membership changes until disconnect.
	for {
		var msg liveClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		metricID, err := parseSnowflakeParam(msg.MetricID)
		if err != nil {
			continue
		}

		switch msg.Type {
		case "subscribe":
			if _, err := s.catalogSvc.GetByID(c.Request.Context(), metricID); err != nil {
				continue
			}
			sub.Subscribe(metricID)
		case "unsubscribe":
			sub.Unsubscribe(metricID)
		}
	}
}
