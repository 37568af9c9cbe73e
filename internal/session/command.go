package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pefman/orlog-duel/internal/engine"
	"github.com/pefman/orlog-duel/internal/game"
)

// Command types accepted from the client.
const (
	CmdChooseFavors = "choose_favors"
	CmdRoll         = "roll"
	CmdKeep         = "keep"
	CmdConfirm      = "confirm"
	CmdPickFavor    = "pick_favor"
	CmdSkipFavor    = "skip_favor"
	CmdTarget       = "target"
	CmdCancelTarget = "cancel_target"
	CmdReset        = "reset"
	CmdState        = "state"
)

// Message types sent to the client.
const (
	MsgHello  = "hello"
	MsgState  = "state"
	MsgNotice = "notice"
	MsgTarget = "target"
	MsgRound  = "round"
	MsgOver   = "over"
	MsgError  = "error"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadPayload     = errors.New("malformed payload")
)

// Command is one decoded client request. Fields not used by Type are zero.
type Command struct {
	Type   string            `json:"type"`
	Seat   game.Seat         `json:"seat"`
	Index  int               `json:"index,omitempty"`
	Favor  string            `json:"favor,omitempty"`
	Level  engine.Level      `json:"level,omitempty"`
	Favors []string          `json:"favors,omitempty"`
	Target game.TargetAnswer `json:"target"`
}

// inbound mirrors models.Envelope with the payload left raw.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type payload struct {
	Seat   *game.Seat    `json:"seat"`
	Index  int           `json:"index"`
	Favor  string        `json:"favor"`
	Level  engine.Level  `json:"level"`
	Favors []string      `json:"favors"`
	Dice   []game.DieRef `json:"dice"`
	Amount int           `json:"amount"`
}

// Decode parses {"type": ..., "data": {...}} into a Command.
func Decode(raw []byte) (Command, error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	var p payload
	if len(in.Data) > 0 {
		if err := json.Unmarshal(in.Data, &p); err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
	}
	cmd := Command{Type: in.Type}

	switch in.Type {
	case CmdReset, CmdState:
		return cmd, nil
	case CmdChooseFavors, CmdRoll, CmdKeep, CmdConfirm, CmdPickFavor, CmdSkipFavor, CmdTarget, CmdCancelTarget:
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, in.Type)
	}

	if p.Seat == nil {
		return Command{}, fmt.Errorf("%w: %s needs a seat", ErrBadPayload, in.Type)
	}
	cmd.Seat = *p.Seat
	switch in.Type {
	case CmdChooseFavors:
		cmd.Favors = p.Favors
	case CmdKeep:
		cmd.Index = p.Index
	case CmdTarget:
		cmd.Target = game.TargetAnswer{Dice: p.Dice, Amount: p.Amount}
	case CmdCancelTarget:
		cmd.Target = game.TargetAnswer{Cancelled: true}
	case CmdPickFavor:
		if p.Favor == "" {
			return Command{}, fmt.Errorf("%w: pick_favor needs a favor", ErrBadPayload)
		}
		cmd.Favor, cmd.Level = p.Favor, p.Level
	}
	return cmd, nil
}
