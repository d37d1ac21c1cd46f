// Package feed exposes a running game session over HTTP and websockets.
//
// Clients send JSON commands and receive a result for each one, plus a stream
// of snapshots broadcast at a throttled rate:
//
//	-> {"type":"dispatch","planet_id":3}
//	<- {"type":"result","command":"dispatch","ok":true}
//	<- {"type":"snapshot","payload":{...}}
package feed

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spacehole-rogue/orbitminer/internal/game"
)

// Command names accepted from clients.
const (
	CmdAddShip      = "add_ship"
	CmdScan         = "scan"
	CmdDispatch     = "dispatch"
	CmdRecall       = "recall"
	CmdRefine       = "refine"
	CmdCancelRefine = "cancel_refine"
	CmdUpgrade      = "upgrade"
	CmdTap          = "tap"
	CmdHold         = "hold"
)

// Message types sent to clients.
const (
	TypeSnapshot = "snapshot"
	TypeResult   = "result"
	TypeError    = "error"
	TypeWelcome  = "welcome"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownPlanet  = errors.New("unknown planet")
	ErrBadRequest     = errors.New("malformed command")
	ErrRateLimited    = errors.New("too many commands")
)

// Command is one client request.
type Command struct {
	Type     string  `json:"type"`
	PlanetID *int    `json:"planet_id,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
}

// Result answers a command that was understood. OK false is a normal
// game outcome (cap reached, no idle ship, not enough gas).
type Result struct {
	Type     string `json:"type"`
	Command  string `json:"command"`
	OK       bool   `json:"ok"`
	PlanetID int    `json:"planet_id,omitempty"` // set by a successful scan
}

// Error answers a command that could not be applied.
type Error struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Envelope carries server-initiated messages.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
	Sender  string `json:"sender,omitempty"`
}

// DecodeCommand parses a raw client frame.
func DecodeCommand(raw []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if cmd.Type == "" {
		return Command{}, fmt.Errorf("%w: missing type", ErrBadRequest)
	}
	return cmd, nil
}

// Apply runs a command against the controller. The caller holds whatever
// lock guards the controller.
func Apply(c *game.Controller, cmd Command) (Result, error) {
	res := Result{Type: TypeResult, Command: cmd.Type}

	switch cmd.Type {
	case CmdAddShip:
		res.OK = c.AddShip()
	case CmdScan:
		p, ok := c.ScanForPlanet()
		res.OK = ok
		if ok {
			res.PlanetID = p.ID
		}
	case CmdRefine:
		res.OK = c.Refine()
	case CmdCancelRefine:
		res.OK = c.CancelRefine()
	case CmdUpgrade:
		res.OK = c.UpgradeSpeed()
	case CmdDispatch, CmdRecall, CmdTap, CmdHold:
		p, err := lookupPlanet(c, cmd.PlanetID)
		if err != nil {
			return Result{}, err
		}
		switch cmd.Type {
		case CmdDispatch:
			res.OK = c.Dispatch(p)
		case CmdRecall:
			res.OK = c.Recall(p)
		case CmdTap:
			res.OK = c.Tap(p.ID)
		case CmdHold:
			res.OK = c.Hold(p.ID, cmd.X, cmd.Y)
		}
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return res, nil
}

func lookupPlanet(c *game.Controller, id *int) (*game.Planet, error) {
	if id == nil {
		return nil, fmt.Errorf("%w: planet_id is required", ErrUnknownPlanet)
	}
	p, ok := c.Planet(*id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlanet, *id)
	}
	return p, nil
}

func encodeError(err error) []byte {
	b, _ := json.Marshal(Error{Type: TypeError, Error: err.Error()})
	return b
}
