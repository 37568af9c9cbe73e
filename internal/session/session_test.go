package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pefman/orlog-duel/internal/config"
	"github.com/pefman/orlog-duel/internal/game"
	"github.com/pefman/orlog-duel/internal/stats"
)

func TestHandleWithBotOpponent(t *testing.T) {
	s, err := New(nil, Options{
		Names:    [2]string{"Ann", "Bot"},
		Seed:     11,
		BotSeats: []game.Seat{game.SeatTwo},
	})
	if err != nil {
		t.Fatal(err)
	}
	g := s.Game()
	if len(g.Player(game.SeatTwo).Favors) != 3 {
		t.Fatalf("bot favors = %d, want 3", len(g.Player(game.SeatTwo).Favors))
	}
	if err := s.Handle(Command{Type: CmdState}); err != nil {
		t.Fatal(err)
	}
	if g.CurrentSeat() != game.SeatOne {
		t.Fatalf("current = %d, want the human seat", g.CurrentSeat())
	}
	if err := s.Handle(Command{Type: CmdRoll, Seat: game.SeatOne}); err != nil {
		t.Fatal(err)
	}
	before := g.Rolls(game.SeatTwo)
	if err := s.Handle(Command{Type: CmdConfirm, Seat: game.SeatOne}); err != nil {
		t.Fatal(err)
	}
	if g.Rolls(game.SeatTwo) != before+1 {
		t.Fatalf("bot rolls = %d, want %d", g.Rolls(game.SeatTwo), before+1)
	}
	if g.CurrentSeat() != game.SeatOne {
		t.Fatal("turn did not come back to the human seat")
	}
	if err := s.Handle(Command{Type: CmdRoll, Seat: game.SeatTwo}); !errors.Is(err, game.ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
}

func TestBotsPlayWholeMatch(t *testing.T) {
	st := stats.NewStore(0)
	s, err := New(nil, Options{
		Seed:     21,
		BotSeats: []game.Seat{game.SeatOne, game.SeatTwo},
		Stats:    st,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Handle(Command{Type: CmdState}); err != nil {
		t.Fatal(err)
	}
	if !s.Game().Over() {
		t.Fatal("bots did not finish the match")
	}
	tally, ok := st.Get(s.ID)
	if !ok || tally.Result == nil {
		t.Fatalf("tally = %+v, %v", tally, ok)
	}
	if tally.Rounds != s.Game().Round() {
		t.Fatalf("tally rounds = %d, game round = %d", tally.Rounds, s.Game().Round())
	}

	if err := s.Handle(Command{Type: CmdReset}); err != nil {
		t.Fatal(err)
	}
	if !s.Game().Over() {
		t.Fatal("bots did not finish the second match")
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(nil, Options{BotSeats: []game.Seat{3}}); !errors.Is(err, game.ErrInvalidSeat) {
		t.Fatalf("err = %v, want ErrInvalidSeat", err)
	}
	_, err := New(nil, Options{Favors: [2][]string{{"Nobody's Favor"}}})
	if !errors.Is(err, game.ErrUnknownFavor) {
		t.Fatalf("err = %v, want ErrUnknownFavor", err)
	}
}

func TestTargetAnsweredOnlyByAskedSeat(t *testing.T) {
	s, err := New(nil, Options{
		Names:  [2]string{"Ann", "Bo"},
		Seed:   3,
		Favors: [2][]string{nil, {"Loki's Trick"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	g := s.Game()
	for g.PhaseName() == game.PhaseRoll {
		seat := g.CurrentSeat()
		if err := s.Handle(Command{Type: CmdRoll, Seat: seat}); err != nil {
			t.Fatalf("roll seat %d: %v", seat, err)
		}
		if err := s.Handle(Command{Type: CmdConfirm, Seat: seat}); err != nil {
			t.Fatalf("confirm seat %d: %v", seat, err)
		}
	}
	g.Player(game.SeatTwo).Tokens = 6
	for g.PhaseName() == game.PhaseFavor {
		cmd := Command{Type: CmdSkipFavor, Seat: g.CurrentSeat()}
		if cmd.Seat == game.SeatTwo {
			cmd = Command{Type: CmdPickFavor, Seat: game.SeatTwo, Favor: "Loki's Trick", Level: 1}
		}
		if err := s.Handle(cmd); err != nil {
			t.Fatalf("%s: %v", cmd.Type, err)
		}
	}

	req := g.Pending()
	if req == nil || req.Seat != game.SeatTwo {
		t.Fatalf("pending = %+v, want a request for seat 2", req)
	}
	err = s.Handle(Command{Type: CmdCancelTarget, Seat: game.SeatOne, Target: game.TargetAnswer{Cancelled: true}})
	if !errors.Is(err, game.ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	if g.Pending() != req {
		t.Fatal("answer from the wrong seat consumed the request")
	}
	if err := s.Handle(Command{Type: CmdCancelTarget, Seat: game.SeatTwo, Target: game.TargetAnswer{Cancelled: true}}); err != nil {
		t.Fatal(err)
	}
	if g.Pending() != nil {
		t.Fatal("request still pending after the asked seat answered")
	}
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readUntil(t *testing.T, conn *websocket.Conn, typ string) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read waiting for %q: %v", typ, err)
		}
		if f.Type == typ {
			return f
		}
	}
}

func TestHubServesSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Config{P1Name: "Ann", P2Name: "Bo"}
	st := stats.NewStore(0)
	hub := NewHub(ctx, cfg, st, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?bot=2&seed=5&p1=Cy"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var hello struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(readUntil(t, conn, MsgHello).Data, &hello); err != nil {
		t.Fatal(err)
	}
	if active := hub.Active(); len(active) != 1 || active[0] != hello.ID {
		t.Fatalf("active = %v, want [%s]", active, hello.ID)
	}

	var state struct {
		ID      string `json:"id"`
		Players [2]struct {
			Name string `json:"name"`
		} `json:"players"`
	}
	if err := json.Unmarshal(readUntil(t, conn, MsgState).Data, &state); err != nil {
		t.Fatal(err)
	}
	if state.ID != hello.ID || state.Players[0].Name != "Cy" || state.Players[1].Name != "Bo" {
		t.Fatalf("state = %+v", state)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, MsgError)

	if err := conn.WriteJSON(map[string]any{"type": "roll", "data": map[string]int{"seat": 1}}); err != nil {
		t.Fatal(err)
	}
	f := readUntil(t, conn, MsgNotice)
	if !strings.Contains(string(f.Data), "not your turn") {
		t.Fatalf("notice = %s", f.Data)
	}

	if _, ok := st.Get(hello.ID); !ok {
		t.Fatal("live match has no tally")
	}
	_ = conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for len(hub.Active()) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("session still active after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok := st.Get(hello.ID); ok {
		t.Fatal("abandoned match tally kept")
	}
}

func TestHubRejectsBadQuery(t *testing.T) {
	hub := NewHub(context.Background(), config.Config{}, nil, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?bot=7"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded with a bad bot seat")
	}
	if resp == nil || resp.StatusCode != 400 {
		t.Fatalf("resp = %v", resp)
	}
}
