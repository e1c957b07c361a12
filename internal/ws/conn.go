package ws

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

var (
	ErrClosed       = errors.New("connection closed")
	ErrSlowConsumer = errors.New("send buffer full")
)

// frameConn is the part of a websocket connection the writer uses.
type frameConn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Conn adapts a fiber websocket connection to Channel. Send never blocks:
// frames are queued for a single writer goroutine, and a client that lets the
// queue fill up is disconnected.
type Conn struct {
	conn      frameConn
	send      chan []byte
	done      chan struct{}
	writerOut chan struct{}
	closeOnce sync.Once
}

// NewConn wraps conn and starts its writer. Callers must Close it before the
// fiber handler returns.
func NewConn(conn *websocket.Conn) *Conn {
	return newConn(conn)
}

func newConn(conn frameConn) *Conn {
	c := &Conn{
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
		writerOut: make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *Conn) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClosed
	default:
		c.shutdown()
		return ErrSlowConsumer
	}
}

func (c *Conn) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Close stops the writer, waits for it to flush what was already queued and
// closes the socket.
func (c *Conn) Close() error {
	c.shutdown()
	<-c.writerOut
	return c.conn.Close()
}

func (c *Conn) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Conn) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		close(c.writerOut)
	}()

	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				log.Printf("websocket write: %v", err)
				c.shutdown()
				return
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}
		case <-c.done:
			if err := c.drain(); err != nil {
				return
			}
			_ = c.write(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
			return
		}
	}
}

// drain writes frames still queued after shutdown, giving up after writeWait.
func (c *Conn) drain() error {
	deadline := time.Now().Add(writeWait)
	for time.Now().Before(deadline) {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (c *Conn) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
