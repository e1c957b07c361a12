package ws

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
)

type frame struct {
	kind int
	data string
}

// scriptedConn records writes; when gate is set, each write waits for it.
type scriptedConn struct {
	mu     sync.Mutex
	frames []frame
	gate   chan struct{}
	closed bool
}

func (s *scriptedConn) SetWriteDeadline(time.Time) error { return nil }

func (s *scriptedConn) WriteMessage(kind int, data []byte) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame{kind: kind, data: string(data)})
	return nil
}

func (s *scriptedConn) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *scriptedConn) written() []frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]frame(nil), s.frames...)
}

func TestConnFlushesQueuedFramesOnClose(t *testing.T) {
	sc := &scriptedConn{}
	c := newConn(sc)

	for _, text := range []string{"one", "two", "resigned"} {
		if err := c.Send([]byte(text)); err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := sc.written()
	if len(got) != 4 {
		t.Fatalf("wrote %d frames, want 3 text frames and a close frame: %+v", len(got), got)
	}
	for i, want := range []string{"one", "two", "resigned"} {
		if got[i].kind != websocket.TextMessage || got[i].data != want {
			t.Fatalf("frame %d = %+v, want text %q", i, got[i], want)
		}
	}
	if got[3].kind != websocket.CloseMessage {
		t.Fatalf("last frame kind = %d, want close", got[3].kind)
	}
	if !sc.closed || !c.Closed() {
		t.Fatal("connection not closed")
	}
	if err := c.Send([]byte("late")); !errors.Is(err, ErrClosed) {
		t.Fatalf("send after close err = %v, want ErrClosed", err)
	}
}

func TestConnDisconnectsSlowConsumer(t *testing.T) {
	sc := &scriptedConn{gate: make(chan struct{})}
	c := newConn(sc)

	var err error
	for i := 0; i < sendBuffer+2 && err == nil; i++ {
		err = c.Send([]byte("x"))
	}
	if !errors.Is(err, ErrSlowConsumer) {
		t.Fatalf("err = %v, want ErrSlowConsumer", err)
	}
	if !c.Closed() {
		t.Fatal("slow consumer still open")
	}

	close(sc.gate)
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
