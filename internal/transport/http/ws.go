package http

import (
	"log/slog"
	"net/http"
	"time"

	"sunami_park/internal/lib/logger/sl"
	"sunami_park/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The site and the API live on different origins in local setups.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Realtime godoc
// @Summary Settings change stream
// @Description Websocket stream of park settings events. Each message is one JSON event.
// @Tags park
// @Router /api/v1/realtime [get]
func (r *Routers) Realtime(c echo.Context) error {
	const op = "http.routers.Realtime"

	log := r.log.With(slog.String("op", op))

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error("websocket upgrade failed", sl.Err(err))
		return err
	}
	defer conn.Close()

	events, unsubscribe := r.Feed.Subscribe()
	defer unsubscribe()

	metrics.RealtimeSubscribers.Inc()
	defer metrics.RealtimeSubscribers.Dec()

	log.Info("realtime client connected", slog.String("remote", conn.RemoteAddr().String()))

	// Read pump: discard inbound frames, notice the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-c.Request().Context().Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Debug("realtime client write failed", sl.Err(err))
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}
