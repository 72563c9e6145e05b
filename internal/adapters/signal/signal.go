package signal

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/Lingo/internal/app/orch"
	"github.com/dkeye/Lingo/internal/auth"
	"github.com/dkeye/Lingo/internal/config"
	"github.com/dkeye/Lingo/internal/core"
	"github.com/dkeye/Lingo/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Options tune a single socket. PingPeriod must be shorter than PongWait.
type Options struct {
	ReadLimit    int64
	SendBuffer   int
	WriteWait    time.Duration
	PongWait     time.Duration
	PingPeriod   time.Duration
	RateLimit    int
	RateInterval time.Duration
	// AllowedOrigins lists browser origins allowed to upgrade; "*" allows any.
	AllowedOrigins []string
}

func DefaultOptions() Options {
	return Options{
		ReadLimit:    32 << 10,
		SendBuffer:   64,
		WriteWait:    10 * time.Second,
		PongWait:     60 * time.Second,
		PingPeriod:   54 * time.Second,
		RateLimit:    20,
		RateInterval: time.Second,

		AllowedOrigins: []string{"*"},
	}
}

func OptionsFrom(cfg *config.Config) Options {
	return Options{
		ReadLimit:    cfg.ReadLimit,
		SendBuffer:   cfg.SendBuffer,
		WriteWait:    cfg.WriteWait,
		PongWait:     cfg.PongWait,
		PingPeriod:   cfg.PingPeriod,
		RateLimit:    cfg.RateLimit,
		RateInterval: cfg.RateInterval,

		AllowedOrigins: cfg.CORSAllow,
	}
}

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Auth    *auth.JWT
	Limiter *RateLimiter

	opts     Options
	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, jwt *auth.JWT, opts Options) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		Auth:    jwt,
		Limiter: NewRateLimiter(opts.RateLimit, opts.RateInterval),
		opts:    opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(opts.AllowedOrigins),
		},
	}
}

// originChecker accepts upgrades from the allowed origins. Requests without an
// Origin header do not come from a browser and are let through.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		log.Warn().Str("module", "signal").Str("origin", origin).Msg("origin rejected")
		return false
	}
}

type connState int

const (
	stateOpen connState = iota
	stateClosing
	stateClosed
)

// WsSignalConn is the gorilla-backed SignalConnection. Only writePump writes to
// the socket; everyone else queues through TrySend.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu    sync.RWMutex
	state connState
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	if buffer <= 0 {
		buffer = 1
	}
	return &WsSignalConn{conn: ws, send: make(chan core.Frame, buffer)}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != stateOpen {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == stateOpen
}

// beginClose stops accepting frames while cleanup runs.
func (c *WsSignalConn) beginClose() {
	c.mu.Lock()
	if c.state == stateOpen {
		c.state = stateClosing
	}
	c.mu.Unlock()
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return
	}
	c.state = stateClosed
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and starts the socket pumps. ctx bounds the
// connection lifetime; cancelling it closes the socket.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	clientToken := c.GetString("client_token")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", clientToken).Msg("new WS connection")

	conn := newWsSignalConn(ws, ctl.opts.SendBuffer)
	sess := core.NewMemberSession(sid, domain.NewMember(clientToken), conn)
	connCtx, cancel := context.WithCancel(ctx)
	ctl.Orch.OnConnect(sess, cancel)

	go ctl.writePump(ctx, connCtx, conn)
	go ctl.readPump(sid, conn)
}
