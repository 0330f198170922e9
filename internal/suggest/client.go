package suggest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dharmasatrya/flightexplorer/internal/debounce"
	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

type MessageType string

const (
	MessageTypeSuggestions MessageType = "suggestions"
	MessageTypeError       MessageType = "error"
)

// Query is what the browser sends on every keystroke.
type Query struct {
	Query  string `json:"query"`
	Locale string `json:"locale,omitempty"`
}

type Message struct {
	Type      MessageType       `json:"type"`
	Query     string            `json:"query"`
	Locations []models.Location `json:"locations,omitempty"`
	CacheHit  bool              `json:"cacheHit,omitempty"`
	Message   string            `json:"message,omitempty"`
	Notice    *models.Notice    `json:"notice,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

type AirportSearcher interface {
	SearchAirports(ctx context.Context, query, locale string) ([]models.Location, bool, error)
}

// Searchable reports whether a trimmed query is long enough to send upstream.
func Searchable(query string, minLength int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= minLength
}

type Client struct {
	id        uuid.UUID
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	searcher  AirportSearcher
	debouncer *debounce.Debouncer
	minLength int
	notice    func() *models.Notice
	log       *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	seq      uint64
	inflight context.CancelFunc
	closed   bool
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.debouncer.Stop()
	c.cancel()
	close(c.send)
}

// readPump turns incoming queries into debounced searches.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("suggest socket closed unexpectedly", "client_id", c.id, "error", err)
			}
			return
		}

		var q Query
		if err := json.Unmarshal(data, &q); err != nil {
			c.emit(Message{Type: MessageTypeError, Message: "malformed query"})
			continue
		}
		c.schedule(q)
	}
}

func (c *Client) schedule(q Query) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	c.debouncer.Call(func() { c.search(seq, q) })
}

func (c *Client) search(seq uint64, q Query) {
	query := strings.TrimSpace(q.Query)
	if !Searchable(query, c.minLength) {
		c.deliver(seq, Message{Type: MessageTypeSuggestions, Query: query, Locations: []models.Location{}})
		return
	}

	ctx, cancel := context.WithCancel(c.ctx)
	c.mu.Lock()
	if c.inflight != nil {
		c.inflight()
	}
	c.inflight = cancel
	c.mu.Unlock()
	defer cancel()

	locations, hit, err := c.searcher.SearchAirports(ctx, query, q.Locale)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		c.log.Warn("airport suggestion failed", "client_id", c.id, "query", query, "error", err)
		c.deliver(seq, Message{Type: MessageTypeError, Query: query, Message: "unable to load airports"})
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}
	c.deliver(seq, Message{Type: MessageTypeSuggestions, Query: query, Locations: locations, CacheHit: hit})
}

// deliver drops answers to queries the user has already typed past.
func (c *Client) deliver(seq uint64, msg Message) {
	c.mu.Lock()
	stale := seq != c.seq
	c.mu.Unlock()
	if stale {
		return
	}
	c.emit(msg)
}

func (c *Client) emit(msg Message) {
	if c.notice != nil {
		msg.Notice = c.notice()
	}
	msg.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal suggestion", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("suggest client too slow, dropping message", "client_id", c.id)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
