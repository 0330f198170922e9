package suggest

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightexplorer/internal/debounce"
	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/models"
)

type Config struct {
	Debounce  time.Duration
	MinLength int
	// CheckOrigin defaults to allowing every origin.
	CheckOrigin func(r *http.Request) bool
}

type Handler struct {
	hub      *Hub
	searcher AirportSearcher
	notice   func() *models.Notice
	cfg      Config
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func NewHandler(hub *Hub, searcher AirportSearcher, notice func() *models.Notice, cfg Config, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = 2
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		hub:      hub,
		searcher: searcher,
		notice:   notice,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

// Serve upgrades GET /ws/airports. The socket lives until either side closes it.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.WithContext(c.Request().Context()).Warn("websocket upgrade failed", "error", err)
		return nil
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request().Context()))
	client := &Client{
		id:        uuid.New(),
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 16),
		searcher:  h.searcher,
		debouncer: debounce.New(h.cfg.Debounce),
		minLength: h.cfg.MinLength,
		notice:    h.notice,
		log:       h.log,
		ctx:       ctx,
		cancel:    cancel,
	}
	if !h.hub.add(client) {
		cancel()
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return nil
	}

	go client.writePump()
	client.readPump()
	return nil
}
