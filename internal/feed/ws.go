package feed

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"foodbridge/internal/session"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type wsInbound struct {
	Type string `json:"type"`
}

type wsOutbound struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Donation  *donationOutput `json:"donation,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// donationOutput omits the image payload; clients fetch it through the API.
type donationOutput struct {
	ID       int64  `json:"id"`
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
	Expiry   string `json:"expiry"`
	Status   string `json:"status"`
	HasImage bool   `json:"hasImage"`
}

func toOutbound(ev session.DonationEvent) wsOutbound {
	d := ev.Donation
	return wsOutbound{
		Type:      string(ev.Kind),
		SessionID: ev.SessionID,
		Donation: &donationOutput{
			ID:       d.ID,
			Item:     d.Item,
			Quantity: d.Quantity,
			Category: d.Category,
			Expiry:   d.Expiry,
			Status:   string(d.Status),
			HasImage: d.ImageSource != "",
		},
	}
}

// ServeWS upgrades the request and streams the donation events of sessionID
// until the client disconnects. The first message is {"type":"subscribed"}.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		h.log.Warn().Err(err).Msg("feed ws set read deadline failed")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	events, unsubscribe := h.Subscribe(sessionID)
	defer unsubscribe()

	writeCh := make(chan wsOutbound, subscriberBuffer)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case ev := <-events:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(toOutbound(ev)); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	push(writeCh, wsOutbound{Type: "subscribed", SessionID: sessionID})
	h.log.Debug().Str("session_id", sessionID).Msg("feed subscriber connected")

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			h.log.Debug().Str("session_id", sessionID).Msg("feed subscriber disconnected")
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			push(writeCh, wsOutbound{Type: "pong"})
		default:
			push(writeCh, wsOutbound{Type: "error", Message: "unsupported type: " + in.Type})
		}
	}
}
