// internal/app/features/live/handler.go
package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/pagepulse/internal/app/system/auth"
	"github.com/dalemusser/pagepulse/internal/app/system/limits"
	"github.com/gorilla/csrf"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultShortcutKey opens the new-project dialog with Ctrl/Cmd+k.
const DefaultShortcutKey = "k"

// DefaultPongWait is how long a page may stay silent, pongs included,
// before its connection is dropped.
const DefaultPongWait = 60 * time.Second

// Handler upgrades dashboard pages to the live channel that hosts the
// new-project dialog.
type Handler struct {
	Log          *zap.Logger
	WriteTimeout time.Duration
	ShortcutKey  string

	// PongWait bounds each read; pings go out at 9/10 of it.
	PongWait time.Duration

	upgrader  websocket.Upgrader
	quit      chan struct{}
	closeOnce sync.Once
}

// NewHandler constructs a live Handler. writeTimeout bounds each frame write.
func NewHandler(writeTimeout time.Duration, logger *zap.Logger) *Handler {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Handler{
		Log:          logger,
		WriteTimeout: writeTimeout,
		ShortcutKey:  DefaultShortcutKey,
		PongWait:     DefaultPongWait,
		quit:         make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
		},
	}
}

// Close ends every open live session. Safe to call more than once.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /live – websocket                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLive(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	sess := NewSession(SessionConfig{
		Children:        projectForm(csrf.Token(r)),
		OpenShortcutKey: h.ShortcutKey,
	})

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.Log.Warn("live upgrade failed", zap.Error(err))
		return
	}

	log := h.Log.With(zap.String("user_id", userID(u)))
	log.Debug("live session opened")

	h.run(r.Context(), conn, sess, log)
}

// run is the session's event loop: read one message, apply it, write one
// frame. It returns once the connection is gone.
func (h *Handler) run(ctx context.Context, conn *websocket.Conn, sess *Session, log *zap.Logger) {
	done := make(chan struct{})
	defer func() {
		close(done)
		sess.Close()
		_ = conn.Close()
		log.Debug("live session closed")
	}()

	conn.SetReadLimit(limits.MaxLiveMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(h.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.PongWait))
	})

	go h.keepAlive(ctx, conn, done, log)

	for {
		var in Inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("live read failed", zap.Error(err))
			}
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(h.PongWait))
		frame := sess.Handle(in)

		_ = conn.SetWriteDeadline(time.Now().Add(h.WriteTimeout))
		if err := conn.WriteJSON(frame); err != nil {
			log.Warn("live write failed", zap.Error(err))
			return
		}
	}
}

// keepAlive pings the page until the session ends. On handler Close or
// context cancellation it closes the connection, which unblocks the reader.
// WriteControl may run alongside the reader's WriteJSON.
func (h *Handler) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}, log *zap.Logger) {
	ticker := time.NewTicker(h.PongWait * 9 / 10)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.WriteTimeout)); err != nil {
				log.Debug("live ping failed", zap.Error(err))
				_ = conn.Close()
				return
			}
		case <-h.quit:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.WriteTimeout))
			_ = conn.Close()
			return
		case <-ctx.Done():
			_ = conn.Close()
			return
		}
	}
}

func userID(u *auth.SessionUser) string {
	if u == nil {
		return ""
	}
	return u.ID
}
