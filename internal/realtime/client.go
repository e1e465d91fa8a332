package realtime

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait = 10 * time.Second

	// cursorInterval throttles cursor broadcasts to roughly one per 30ms
	// per participant; excess positions are dropped, not queued.
	cursorInterval = 30 * time.Millisecond

	sendBuffer = 256
)

var palette = []string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b",
	"#8b5cf6", "#ec4899", "#14b8a6", "#f97316",
}

// colorFor assigns a stable cursor color per identity.
func colorFor(user string) string {
	h := fnv.New32a()
	h.Write([]byte(user))
	return palette[h.Sum32()%uint32(len(palette))]
}

// Client is one websocket participant of a room.
type Client struct {
	room     *Room
	conn     *websocket.Conn
	send     chan []byte
	user     string
	color    string
	onlineAt time.Time
	limiter  *rate.Limiter
	closed   sync.Once
}

// NewClient wraps an upgraded connection and joins it to the room.
func NewClient(room *Room, conn *websocket.Conn, user string) *Client {
	c := &Client{
		room:     room,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		user:     user,
		color:    colorFor(user),
		onlineAt: time.Now(),
		limiter:  rate.NewLimiter(rate.Every(cursorInterval), 1),
	}
	room.join(c)
	return c
}

// Run pumps the connection until it drops, then leaves the room. It blocks
// for the lifetime of the connection.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.room.leave(c)
	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			return
		}
		cursor, err := DecodeCursor(env)
		if err != nil {
			c.room.logger.Warn("rejecting malformed room message", "user", c.user, "error", err)
			continue
		}
		if !c.limiter.Allow() {
			continue // over the throttle: drop silently
		}
		cursor.User = c.user
		cursor.Color = c.color
		c.room.broadcastCursor(c, cursor)
	}
}

func (c *Client) writePump() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
}

func (c *Client) close() {
	c.closed.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}
