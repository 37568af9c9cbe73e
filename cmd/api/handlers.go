package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pefman/orlog-duel/internal/bot"
	"github.com/pefman/orlog-duel/internal/engine"
	"github.com/pefman/orlog-duel/internal/favors"
	"github.com/pefman/orlog-duel/internal/game"
	"github.com/pefman/orlog-duel/internal/models"
	"github.com/pefman/orlog-duel/internal/stats"
)

const (
	maxSimRounds = 500
	maxBodyBytes = 1 << 16
)

type server struct {
	stats *stats.Store
	ws    http.Handler
	// active lists live websocket matches
	active func() []string
	log    *zap.Logger
}

func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/favors", s.handleFavors).Methods(http.MethodGet)
	r.HandleFunc("/api/favors/{name}", s.handleFavor).Methods(http.MethodGet)
	r.HandleFunc("/api/matches", s.handleMatches).Methods(http.MethodGet)
	r.HandleFunc("/api/matches/{id}/stats", s.handleMatchStats).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/best-round/today", s.handleBestToday).Methods(http.MethodGet)
	r.HandleFunc("/api/sim/match", s.handleSimMatch).Methods(http.MethodPost)
	if s.ws != nil {
		r.Handle("/ws", s.ws)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "unsupported path")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *server) handleFavors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.Catalog())
}

func (s *server) handleFavor(w http.ResponseWriter, r *http.Request) {
	f, ok := favors.Lookup(mux.Vars(r)["name"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown favor")
		return
	}
	writeJSON(w, models.NewFavorView(f))
}

func (s *server) handleMatches(w http.ResponseWriter, r *http.Request) {
	ids := []string{}
	if s.active != nil {
		ids = s.active()
	}
	writeJSON(w, map[string]any{"active": ids, "tracked": s.stats.Len()})
}

func (s *server) handleMatchStats(w http.ResponseWriter, r *http.Request) {
	t, ok := s.stats.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown match")
		return
	}
	writeJSON(w, t)
}

func (s *server) handleBestToday(w http.ResponseWriter, r *http.Request) {
	b, ok := s.stats.BestToday()
	if !ok {
		writeJSON(w, map[string]any{})
		return
	}
	writeJSON(w, b)
}

// handleSimMatch plays a bot-vs-bot match and records it like a hosted one.
func (s *server) handleSimMatch(w http.ResponseWriter, r *http.Request) {
	var req models.SimRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MaxRounds <= 0 || req.MaxRounds > maxSimRounds {
		req.MaxRounds = maxSimRounds
	}
	if req.Seed == 0 {
		seed, err := engine.NewSeed()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		req.Seed = seed
	}
	rng, err := engine.NewRNG(req.Seed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	g := game.New(game.Options{Names: req.Names, Rand: rng})
	for seat, names := range req.Favors {
		if len(names) == 0 {
			names = favors.Names()[:engine.MaxFavors]
		}
		if err := g.ChooseFavors(game.Seat(seat), names); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	resp := models.SimResponse{ID: uuid.NewString(), Seed: req.Seed, Rounds: []game.RoundSummary{}}
	s.stats.Start(resp.ID, [2]string{g.Player(game.SeatOne).Name, g.Player(game.SeatTwo).Name})
	bots := [2]*bot.Bot{bot.New(game.SeatOne, rng), bot.New(game.SeatTwo, rng)}
	res, err := bot.Play(g, bots, req.MaxRounds, func(step game.Step) {
		if step.Summary != nil {
			s.stats.Record(resp.ID, *step.Summary)
			resp.Rounds = append(resp.Rounds, *step.Summary)
		}
	})
	switch {
	case errors.Is(err, bot.ErrTooManyRounds):
		resp.Error = err.Error()
	case err != nil:
		s.log.Error("sim match", zap.String("match", resp.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	default:
		resp.Result = &res
		s.stats.Finish(resp.ID, res)
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

// withCORS answers preflight requests and allows the configured origins.
func withCORS(origins []string, next http.Handler) http.Handler {
	allow := "*"
	if len(origins) > 0 {
		allow = strings.Join(origins, ", ")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allow)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
