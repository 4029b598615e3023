package stream

import "github.com/plus3/blockfall/sim"

// Command is a board command sent by a client.
type Command string

const (
	CmdLeft  Command = "left"
	CmdRight Command = "right"
	CmdDown  Command = "down"
	CmdTick  Command = "tick"
	CmdReset Command = "reset"
)

// ParseCommand validates a client supplied command name.
func ParseCommand(s string) (Command, bool) {
	switch c := Command(s); c {
	case CmdLeft, CmdRight, CmdDown, CmdTick, CmdReset:
		return c, true
	}
	return "", false
}

const (
	FrameWelcome = "welcome"
	FrameState   = "state"
	FrameError   = "error"
)

// Frame is the JSON message pushed to clients.
type Frame struct {
	Type    string     `json:"type"`
	Session string     `json:"session,omitempty"`
	Seq     uint64     `json:"seq"`
	State   sim.State  `json:"state"`
	Kind    sim.Kind   `json:"kind"`
	Settled []sim.Cell `json:"settled"`
	Active  []sim.Cell `json:"active"`
	Cleared []int64    `json:"cleared,omitempty"`
	Message string     `json:"message,omitempty"`
}

// clientMessage is what clients send over the socket.
type clientMessage struct {
	Type string `json:"type"`
}

func stateFrame(id string, seq uint64, snap sim.Snapshot, cleared []int64) Frame {
	return Frame{
		Type:    FrameState,
		Session: id,
		Seq:     seq,
		State:   snap.State,
		Kind:    snap.Kind,
		Settled: snap.Settled,
		Active:  snap.Active,
		Cleared: cleared,
	}
}
