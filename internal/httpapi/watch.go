package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"tripforge/internal/pipeline"
	"tripforge/internal/runhub"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchOutbound struct {
	State      string `json:"state"`
	Attempt    int    `json:"attempt,omitempty"`
	Message    string `json:"message,omitempty"`
	InstanceID string `json:"instanceId,omitempty"`
	ErrorKind  string `json:"errorKind,omitempty"`
}

type WatchHandler struct {
	hub    *runhub.Hub
	logger *log.Logger
}

func NewWatchHandler(hub *runhub.Hub, logger *log.Logger) *WatchHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &WatchHandler{hub: hub, logger: logger}
}

// HandleWatch streams run progress to the client. The current state is sent
// immediately on connect; the connection closes once the run reaches a
// terminal state.
func (h *WatchHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.hub.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "unknown run", http.StatusNotFound)
		return
	}

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		h.logger.Printf("watch ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	// Reader: drains control frames and detects the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	events := run.Subscribe()
	defer run.Unsubscribe(events)

	ticker := time.NewTicker(watchWSPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(outboundEvent(ev)); err != nil {
				return
			}
			if ev.State == pipeline.StateDone || ev.State == pipeline.StateFailed {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(watchWSWriteWait))
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func outboundEvent(ev pipeline.Event) watchOutbound {
	out := watchOutbound{
		State:      string(ev.State),
		Attempt:    ev.Attempt,
		Message:    ev.Message,
		InstanceID: ev.InstanceID,
	}
	if ev.Failure != nil {
		out.ErrorKind = string(ev.Failure.Kind)
	}
	return out
}
