package monitor

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/venkman/internal/domain/stimulus"
	"github.com/okian/venkman/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestHub(t *testing.T) {
	Convey("Given a hub behind a test server", t, func() {
		hub := NewHub()
		srv := httptest.NewServer(hub)
		defer srv.Close()
		url := "ws" + strings.TrimPrefix(srv.URL, "http")

		Convey("Publishing without clients is a no-op", func() {
			hub.Publish(types.FrameUpdate{SessionID: "sid-0"})
			So(hub.Len(), ShouldEqual, 0)
		})

		Convey("A connected client receives updates as JSON", func() {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			So(err, ShouldBeNil)
			defer conn.Close()
			So(waitFor(func() bool { return hub.Len() == 1 }), ShouldBeTrue)

			hub.Publish(types.FrameUpdate{
				SessionID:   "sid-0",
				CaptureTime: 22,
				Mode:        "stop",
				Stimulus:    []stimulus.LED{{Intensity: 0, Duration: 60}},
			})

			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, payload, err := conn.ReadMessage()
			So(err, ShouldBeNil)
			var got types.FrameUpdate
			So(json.Unmarshal(payload, &got), ShouldBeNil)
			So(got.SessionID, ShouldEqual, "sid-0")
			So(got.Mode, ShouldEqual, "stop")
			So(got.Stimulus, ShouldHaveLength, 1)

			Convey("and is forgotten after disconnecting", func() {
				So(conn.Close(), ShouldBeNil)
				So(waitFor(func() bool { return hub.Len() == 0 }), ShouldBeTrue)
			})

			Convey("and is disconnected on Close", func() {
				hub.Close()
				So(hub.Len(), ShouldEqual, 0)
				_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
				_, _, err := conn.ReadMessage()
				So(err, ShouldNotBeNil)
			})
		})

		Convey("Slow clients lose updates instead of blocking", func() {
			slow := NewHub(WithBuffer(1))
			c := &client{send: make(chan []byte, 1)}
			slow.clients[c] = struct{}{}
			for i := 0; i < 5; i++ {
				slow.Publish(types.FrameUpdate{SessionID: "sid-0", CaptureTime: int64(i)})
			}
			So(len(c.send), ShouldEqual, 1)
		})
	})
}
