package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"foodbridge/internal/session"
	"foodbridge/internal/tester"
	"foodbridge/internal/types"
)

func TestHub_PublishRoutesBySession(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a, cancelA := hub.Subscribe("a")
	defer cancelA()
	b, cancelB := hub.Subscribe("b")
	defer cancelB()

	hub.Publish(session.DonationEvent{Kind: session.EventDonationAdded, SessionID: "a", Donation: types.Donation{ID: 1}})

	select {
	case ev := <-a:
		tester.Eq(t, ev.Donation.ID, int64(1))
	default:
		t.Fatal("subscriber of a got nothing")
	}
	select {
	case ev := <-b:
		t.Fatalf("subscriber of b got %v", ev)
	default:
	}
}

func TestHub_SlowSubscriberDropsOldest(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ch, cancel := hub.Subscribe("a")
	defer cancel()

	for i := 1; i <= subscriberBuffer+5; i++ {
		hub.Publish(session.DonationEvent{SessionID: "a", Donation: types.Donation{ID: int64(i)}})
	}
	tester.Eq(t, len(ch), subscriberBuffer)
	first := <-ch
	tester.Eq(t, first.Donation.ID, int64(6))
}

func TestHub_CancelUnsubscribes(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	_, cancel := hub.Subscribe("a")
	tester.Eq(t, hub.Subscribers("a"), 1)
	cancel()
	cancel()
	tester.Eq(t, hub.Subscribers("a"), 0)
}

func dialFeed(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, "s1")
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	tester.NoErr(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestServeWS_StreamsDonationEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := dialFeed(t, hub)

	var hello wsOutbound
	tester.NoErr(t, conn.ReadJSON(&hello))
	tester.Eq(t, hello.Type, "subscribed")
	tester.Eq(t, hello.SessionID, "s1")

	s := session.New("s1", hub.Publish)
	s.AddDonation(types.DonationInput{Item: "Soup", Quantity: "3 pots", Expiry: "1 day", ImageSource: "data:image/jpeg;base64,AAAA"})

	var ev wsOutbound
	tester.NoErr(t, conn.ReadJSON(&ev))
	tester.Eq(t, ev.Type, string(session.EventDonationAdded))
	tester.Eq(t, ev.Donation.Item, "Soup")
	tester.Eq(t, ev.Donation.Status, string(types.StatusAvailable))
	tester.True(t, ev.Donation.HasImage, "image presence is flagged")

	s.ClaimDonation(ev.Donation.ID)
	tester.NoErr(t, conn.ReadJSON(&ev))
	tester.Eq(t, ev.Type, string(session.EventDonationClaimed))
}

func TestServeWS_PingPong(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := dialFeed(t, hub)

	var hello wsOutbound
	tester.NoErr(t, conn.ReadJSON(&hello))
	tester.NoErr(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	var out wsOutbound
	tester.NoErr(t, conn.ReadJSON(&out))
	tester.Eq(t, out.Type, "pong")
}
