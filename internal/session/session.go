// Package session hosts one match per websocket connection.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pefman/orlog-duel/internal/bot"
	"github.com/pefman/orlog-duel/internal/engine"
	"github.com/pefman/orlog-duel/internal/favors"
	"github.com/pefman/orlog-duel/internal/game"
	"github.com/pefman/orlog-duel/internal/logging"
	"github.com/pefman/orlog-duel/internal/models"
	"github.com/pefman/orlog-duel/internal/stats"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	// bound on automatic steps between two client commands
	maxSettleSteps = 10000
)

// Options configures a hosted match.
type Options struct {
	Names  [2]string
	Favors [2][]string
	// Seed 0 draws a random seed.
	Seed int64
	// BotSeats are played by the server.
	BotSeats []game.Seat
	Stats    *stats.Store
	Log      *zap.Logger
}

// Session owns a Game. Only the reader goroutine touches the Game; writes
// to the connection are serialized by wmu.
type Session struct {
	ID string

	conn   *websocket.Conn
	wmu    sync.Mutex
	game   *game.Game
	bots   []*bot.Bot
	favors [2][]string
	stats  *stats.Store
	log    *zap.Logger
}

// New prepares a session over conn. It does not start reading.
func New(conn *websocket.Conn, opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		ID:     uuid.NewString(),
		conn:   conn,
		favors: opts.Favors,
		stats:  opts.Stats,
	}
	s.log = log.With(zap.String("match", s.ID))

	r, err := engine.NewRNG(opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("session rng: %w", err)
	}
	for _, seat := range opts.BotSeats {
		if !seat.Valid() {
			return nil, fmt.Errorf("bot seat %d: %w", seat, game.ErrInvalidSeat)
		}
		s.bots = append(s.bots, bot.New(seat, r))
		if len(s.favors[seat]) == 0 {
			s.favors[seat] = favors.Names()[:engine.MaxFavors]
		}
	}

	ln := logging.NewNotifier(s.log)
	s.game = game.New(game.Options{
		Names:    opts.Names,
		Rand:     r,
		Notifier: logging.Tee{ln, engine.NotifierFunc(s.pushNotice)},
	})
	ln.Round = s.game.Round
	if err := s.applyFavors(); err != nil {
		return nil, err
	}
	s.startStats()
	return s, nil
}

// Game exposes the hosted match for inspection.
func (s *Session) Game() *game.Game { return s.game }

func (s *Session) applyFavors() error {
	for seat, names := range s.favors {
		if len(names) == 0 {
			continue
		}
		if err := s.game.ChooseFavors(game.Seat(seat), names); err != nil {
			return fmt.Errorf("seat %d favors: %w", seat, err)
		}
	}
	return nil
}

func (s *Session) startStats() {
	if s.stats == nil {
		return
	}
	s.stats.Start(s.ID, [2]string{s.game.Player(game.SeatOne).Name, s.game.Player(game.SeatTwo).Name})
}

// Run sends the opening state and then reads commands until the peer goes
// away or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.send(MsgHello, map[string]string{"id": s.ID})
	if err := s.settle(); err != nil {
		return err
	}
	s.pushState()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		cmd, err := Decode(raw)
		if err != nil {
			s.log.Debug("bad command", zap.Error(err))
			s.send(MsgError, map[string]string{"message": err.Error()})
			continue
		}
		if err := s.Handle(cmd); err != nil {
			s.log.Debug("command rejected", zap.String("type", cmd.Type), zap.Error(err))
		}
	}
}

// Handle applies one command, lets bots and the resolution run as far as
// they can, and pushes the new state. Rejections were already sent to the
// client as error notices.
func (s *Session) Handle(cmd Command) error {
	err := s.apply(cmd)
	if serr := s.settle(); serr != nil {
		s.log.Error("settle", zap.Error(serr))
		err = errors.Join(err, serr)
	}
	s.pushState()
	return err
}

func (s *Session) apply(cmd Command) error {
	g := s.game
	switch cmd.Type {
	case CmdChooseFavors:
		if err := g.ChooseFavors(cmd.Seat, cmd.Favors); err != nil {
			return err
		}
		s.favors[cmd.Seat] = cmd.Favors
		return nil
	case CmdRoll:
		return g.Roll(cmd.Seat)
	case CmdKeep:
		return g.ToggleKeep(cmd.Seat, game.DieRef{Seat: cmd.Seat, Index: cmd.Index})
	case CmdConfirm:
		return g.Confirm(cmd.Seat)
	case CmdPickFavor:
		return g.PickFavor(cmd.Seat, cmd.Favor, cmd.Level)
	case CmdSkipFavor:
		return g.SkipFavor(cmd.Seat)
	case CmdTarget, CmdCancelTarget:
		step, err := g.AnswerTarget(cmd.Seat, cmd.Target)
		if err != nil {
			return err
		}
		s.report(step)
		return nil
	case CmdReset:
		g.Reset()
		s.startStats()
		return s.applyFavors()
	case CmdState:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
}

// settle advances the resolution and plays bot seats until a human has to
// act or the match is over.
func (s *Session) settle() error {
	g := s.game
	for i := 0; i < maxSettleSteps && !g.Over(); i++ {
		if g.PhaseName() == game.PhaseResolution {
			req := g.Pending()
			if req == nil {
				step, err := g.Advance()
				if err != nil {
					return err
				}
				s.report(step)
				continue
			}
			b := s.botFor(req.Seat)
			if b == nil {
				return nil
			}
			step, err := g.SupplyTarget(b.Answer(g, req))
			if err != nil {
				return err
			}
			s.report(step)
			continue
		}
		acted := false
		for _, b := range s.bots {
			ok, err := b.Act(g)
			if err != nil {
				return err
			}
			acted = acted || ok
		}
		if !acted {
			return nil
		}
	}
	return nil
}

func (s *Session) botFor(seat game.Seat) *bot.Bot {
	for _, b := range s.bots {
		if b.Seat == seat {
			return b
		}
	}
	return nil
}

func (s *Session) report(step game.Step) {
	switch step.Kind {
	case game.StepAwaitingTarget:
		if s.botFor(step.Request.Seat) == nil {
			s.send(MsgTarget, models.NewTargetRequestView(step.Request))
		}
	case game.StepRoundOver:
		s.record(step.Summary)
		s.send(MsgRound, step.Summary)
	case game.StepMatchOver:
		s.record(step.Summary)
		if step.Result != nil {
			if s.stats != nil {
				s.stats.Finish(s.ID, *step.Result)
			}
			s.log.Info("match over", zap.Bool("draw", step.Result.Draw), zap.Int("winner", int(step.Result.Winner)))
		}
		s.send(MsgOver, step)
	}
}

func (s *Session) record(sum *game.RoundSummary) {
	if sum == nil || s.stats == nil {
		return
	}
	s.stats.Record(s.ID, *sum)
}

func (s *Session) pushNotice(n engine.Notice) { s.send(MsgNotice, n) }

func (s *Session) pushState() { s.send(MsgState, models.NewMatchView(s.ID, s.game)) }

// send writes one envelope. Write errors are logged; the reader notices a
// dead connection on its next read.
func (s *Session) send(typ string, data any) {
	if s.conn == nil {
		return
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(models.Envelope{Type: typ, Data: data}); err != nil {
		s.log.Debug("ws write", zap.String("type", typ), zap.Error(err))
	}
}
