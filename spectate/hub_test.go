package spectate

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm-cable/serpent/board"
	"github.com/pthm-cable/serpent/game"
	"github.com/pthm-cable/serpent/systems"
)

func testFrame(tick int32) game.Frame {
	return game.Frame{
		Tick:    tick,
		Episode: 2,
		Score:   30,
		Best:    50,
		Speed:   5,
		Grid:    board.Grid{Width: 20, Height: 20},
		Body:    []board.Cell{{X: 4, Y: 3}, {X: 3, Y: 3}, {X: 2, Y: 3}},
		Target:  board.Cell{X: 10, Y: 1},
		Dir:     board.Right,
		Tier:    systems.TierPath,
	}
}

func startHub(t *testing.T, s Settings) (*Hub, string) {
	t.Helper()
	h := NewHub(s)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", msgType)
	}
	var f Frame
	if err := msgpack.Unmarshal(raw, &f); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	return f
}

func TestNewFrame(t *testing.T) {
	f := NewFrame(testFrame(7))

	if f.Tick != 7 || f.Score != 30 || f.Speed != 5 || f.Width != 20 || f.Height != 20 {
		t.Errorf("frame = %+v", f)
	}
	if len(f.Body) != 3 || f.Body[0] != [2]int{4, 3} {
		t.Errorf("body = %v, want head first", f.Body)
	}
	if f.Target != [2]int{10, 1} || f.Dir != "right" || f.Tier != "path" {
		t.Errorf("target=%v dir=%q tier=%q", f.Target, f.Dir, f.Tier)
	}
}

func TestSpectatorReceivesFrames(t *testing.T) {
	h, url := startHub(t, Settings{SendBuffer: 4})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, "registration", func() bool { return h.ClientCount() == 1 })

	h.Publish(testFrame(1))
	h.Publish(testFrame(2))

	if got := readFrame(t, conn); got.Tick != 1 {
		t.Errorf("first tick = %d, want 1", got.Tick)
	}
	got := readFrame(t, conn)
	if got.Tick != 2 || got.Episode != 2 || len(got.Body) != 3 {
		t.Errorf("second frame = %+v", got)
	}
}

func TestLateJoinerGetsLastFrame(t *testing.T) {
	h, url := startHub(t, Settings{SendBuffer: 4})

	h.Publish(testFrame(9))
	waitFor(t, "broadcast drained", func() bool { return len(h.broadcast) == 0 })

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if got := readFrame(t, conn); got.Tick != 9 {
		t.Errorf("tick = %d, want 9", got.Tick)
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	h, url := startHub(t, Settings{SendBuffer: 4})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, "registration", func() bool { return h.ClientCount() == 1 })

	conn.Close()
	waitFor(t, "unregistration", func() bool { return h.ClientCount() == 0 })
}

func TestSlowClientDropped(t *testing.T) {
	h := NewHub(Settings{SendBuffer: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := &client{hub: h, send: make(chan []byte, 1), addr: "test"}
	h.register <- c

	h.Publish(testFrame(1))
	h.Publish(testFrame(2))
	waitFor(t, "slow client drop", func() bool { return h.ClientCount() == 0 })

	if _, ok := <-c.send; !ok {
		t.Fatal("buffered frame missing")
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel still open after drop")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := NewHub(Settings{})
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := &client{hub: h, send: make(chan []byte, 1), addr: "test"}
	h.register <- c
	cancel()

	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel not closed on shutdown")
	}
	// Publishing after shutdown must not block.
	h.Publish(testFrame(1))
}
