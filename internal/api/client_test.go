package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pefman/orlog-duel/internal/game"
	"github.com/pefman/orlog-duel/internal/models"
)

func newFake(t *testing.T, catalogHits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/favors", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(catalogHits, 1)
		_ = json.NewEncoder(w).Encode(models.Catalog())
	})
	mux.HandleFunc("/api/matches/m1/stats", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"matchId": "m1", "rounds": 4})
	})
	mux.HandleFunc("/api/sim/match", func(w http.ResponseWriter, r *http.Request) {
		var req models.SimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(models.SimResponse{
			ID:     "sim",
			Seed:   req.Seed,
			Result: &game.Result{Winner: game.SeatTwo},
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "unknown match"})
	})
	return httptest.NewServer(mux)
}

func TestClient(t *testing.T) {
	var hits int32
	srv := newFake(t, &hits)
	defer srv.Close()
	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}
	for i := 0; i < 3; i++ {
		cat, err := c.Favors(ctx)
		if err != nil {
			t.Fatalf("favors: %v", err)
		}
		if len(cat) != 20 {
			t.Fatalf("catalog = %d entries", len(cat))
		}
	}
	if hits != 1 {
		t.Fatalf("catalog fetched %d times, want 1", hits)
	}

	tally, err := c.MatchStats(ctx, "m1")
	if err != nil || tally.Rounds != 4 {
		t.Fatalf("stats = %+v, %v", tally, err)
	}
	_, err = c.MatchStats(ctx, "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Message != "unknown match" {
		t.Fatalf("status error = %+v", se)
	}

	resp, err := c.SimMatch(ctx, models.SimRequest{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Seed != 3 || resp.Result == nil || resp.Result.Winner != game.SeatTwo {
		t.Fatalf("sim = %+v", resp)
	}
}
