package session

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pefman/orlog-duel/internal/config"
	"github.com/pefman/orlog-duel/internal/game"
	"github.com/pefman/orlog-duel/internal/stats"
)

// Hub upgrades websocket requests into sessions and tracks the live ones.
type Hub struct {
	cfg      config.Config
	stats    *stats.Store
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
	ctx      context.Context
}

// NewHub returns a hub whose sessions stop when ctx is cancelled.
func NewHub(ctx context.Context, cfg config.Config, st *stats.Store, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		cfg:      cfg,
		stats:    st,
		log:      log,
		sessions: make(map[string]*Session),
		ctx:      ctx,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return cfg.OriginAllowed(r.Header.Get("Origin")) },
	}
	return h
}

// ServeHTTP hosts one match for the connection. Query parameters:
// bot=1|2 lets the server play that seat, p1/p2 override player names,
// seed fixes the dice.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	s, err := New(conn, opts)
	if err != nil {
		h.log.Error("new session", zap.Error(err))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "could not start match"))
		return
	}
	h.add(s)
	defer h.remove(s.ID)

	h.log.Info("session started", zap.String("match", s.ID), zap.String("remote", r.RemoteAddr))
	if err := s.Run(h.ctx); err != nil {
		h.log.Info("session ended", zap.String("match", s.ID), zap.Error(err))
		return
	}
	h.log.Info("session ended", zap.String("match", s.ID))
}

func (h *Hub) options(r *http.Request) (Options, error) {
	q := r.URL.Query()
	opts := Options{
		Names:  h.cfg.Names(),
		Favors: h.cfg.Favors(),
		Seed:   h.cfg.Seed,
		Stats:  h.stats,
		Log:    h.log,
	}
	if v := q.Get("p1"); v != "" {
		opts.Names[0] = v
	}
	if v := q.Get("p2"); v != "" {
		opts.Names[1] = v
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Options{}, err
		}
		opts.Seed = seed
	}
	if v := q.Get("bot"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !game.Seat(n-1).Valid() {
			return Options{}, game.ErrInvalidSeat
		}
		opts.BotSeats = []game.Seat{game.Seat(n - 1)}
	}
	return opts, nil
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = s
}

// remove forgets a session. The tally of a match abandoned before its
// result is dropped too; finished matches stay readable until evicted.
func (h *Hub) remove(id string) {
	if h.stats != nil {
		if t, ok := h.stats.Get(id); ok && t.Result == nil {
			h.stats.Delete(id)
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Active lists the IDs of live sessions.
func (h *Hub) Active() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
