package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"storefront-quiz-service/internal/app"
	"storefront-quiz-service/internal/catalog"
	"storefront-quiz-service/internal/debounce"
	"storefront-quiz-service/internal/metrics"
)

// Options wires the shared datasets and persistence into the handler.
type Options struct {
	Catalog        *catalog.Store
	Questions      *app.QuestionBank
	Store          app.KeyValueStore
	KeyPrefix      string
	SearchDebounce time.Duration
	Logger         *zap.Logger
}

// WSHandler serves one websocket per browser tab. Each connection owns its app
// controller and applies commands one at a time on a single loop.
type WSHandler struct {
	opts     Options
	upgrader websocket.Upgrader
}

func NewWSHandler(opts Options) *WSHandler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &WSHandler{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type sessionPayload struct {
	ClientID string `json:"clientId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// dispatcher is the common shape of the storefront and quiz controllers.
type dispatcher struct {
	dispatch func(ctx context.Context, cmd app.Command) (any, error)
	view     func() any
}

// event is one unit of work for the connection loop: a command, or a decode
// error to report back.
type event struct {
	cmd    app.Command
	errMsg string
}

// ServeStorefront handles /ws/storefront.
func (h *WSHandler) ServeStorefront(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "storefront", func(ctx context.Context, clientID string) dispatcher {
		cart := app.LoadCart(ctx, h.opts.Store, app.CartKey(h.opts.KeyPrefix, clientID), h.opts.Catalog, h.opts.Logger)
		sf := app.NewStorefront(h.opts.Catalog, cart)
		return dispatcher{
			dispatch: func(ctx context.Context, cmd app.Command) (any, error) { return sf.Dispatch(ctx, cmd) },
			view:     func() any { return sf.View("") },
		}
	})
}

// ServeQuiz handles /ws/quiz.
func (h *WSHandler) ServeQuiz(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "quiz", func(ctx context.Context, clientID string) dispatcher {
		board := app.NewLeaderboard(h.opts.Store, app.LeaderboardKey(h.opts.KeyPrefix, clientID), h.opts.Logger)
		qa := app.NewQuizApp(ctx, h.opts.Questions, app.NewQuizSession(h.opts.Questions, board), board)
		return dispatcher{
			dispatch: func(ctx context.Context, cmd app.Command) (any, error) { return qa.Dispatch(ctx, cmd) },
			view:     func() any { return qa.View("") },
		}
	})
}

func (h *WSHandler) serve(w http.ResponseWriter, r *http.Request, appName string, newApp func(context.Context, string) dispatcher) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.opts.Logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	metrics.ActiveConnections.WithLabelValues(appName).Inc()
	defer metrics.ActiveConnections.WithLabelValues(appName).Dec()

	logger := h.opts.Logger.With(zap.String("app", appName), zap.String("client_id", clientID))
	logger.Debug("client connected")
	defer logger.Debug("client disconnected")

	ctx := context.WithoutCancel(r.Context())
	d := newApp(ctx, clientID)

	events := make(chan event, 16)
	readerDone := make(chan struct{})
	loopDone := make(chan struct{})
	defer close(loopDone)

	searches := debounce.New(h.opts.SearchDebounce)
	defer searches.Stop()

	enqueue := func(ev event) bool {
		select {
		case events <- ev:
			return true
		case <-loopDone:
			return false
		}
	}

	go func() {
		defer close(readerDone)
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				return
			}
			cmd, err := decodeCommand(inbound)
			if err != nil {
				if !enqueue(event{errMsg: err.Error()}) {
					return
				}
				continue
			}
			if _, ok := cmd.(app.Search); ok {
				searches.Trigger(func() { enqueue(event{cmd: cmd}) })
				continue
			}
			if !enqueue(event{cmd: cmd}) {
				return
			}
		}
	}()

	// Queued commands are applied even after the client stops reading.
	writable := true
	write := func(msg any) {
		if !writable {
			return
		}
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug("ws write error", zap.Error(err))
			writable = false
		}
	}
	handle := func(ev event) {
		if ev.errMsg != "" {
			write(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: ev.errMsg}})
			return
		}
		view, err := d.dispatch(ctx, ev.cmd)
		if err != nil {
			logger.Warn("command failed", zap.String("command", ev.cmd.CommandName()), zap.Error(err))
		}
		write(outboundMessage[any]{Type: "view", Payload: view})
	}

	write(outboundMessage[sessionPayload]{Type: "session", Payload: sessionPayload{ClientID: clientID}})
	write(outboundMessage[any]{Type: "view", Payload: d.view()})

	for {
		select {
		case ev := <-events:
			handle(ev)
		case <-readerDone:
			for {
				select {
				case ev := <-events:
					handle(ev)
				default:
					return
				}
			}
		}
	}
}
