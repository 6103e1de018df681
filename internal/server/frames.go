package server

import (
	"context"
	"encoding/json"
	"time"

	"nhooyr.io/websocket"

	"github.com/vincewoo/seatrush/internal/seatrush"
)

// Client to server frames.
type ClientFrame struct {
	Type   string `json:"type"`
	SeatID string `json:"seatId,omitempty"`
	Passed bool   `json:"passed,omitempty"`
}

// Server to client frame types.
const (
	FrameState        = "state"
	FrameChallenge    = "challenge"
	FrameChallengeEnd = "challengeEnd"
	FrameGameOver     = "gameOver"
	FrameError        = "error"
)

type ServerFrame struct {
	Type      string             `json:"type"`
	State     *seatrush.Snapshot `json:"state,omitempty"`
	Challenge string             `json:"challenge,omitempty"`
	Seconds   int                `json:"seconds,omitempty"`
	Passed    *bool              `json:"passed,omitempty"`
	Reason    string             `json:"reason,omitempty"`
	Summary   *seatrush.Summary  `json:"summary,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// sendFrame queues a frame for the write loop. A client that cannot keep up
// with snapshots loses frames rather than stalling the room.
func (p *player) sendFrame(frame ServerFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		p.room.logger.Error("marshal frame", "error", err)
		return
	}
	select {
	case p.out <- data:
	default:
		p.room.logger.Warn("slow client, dropping frame", "slot", p.slot, "type", frame.Type)
	}
}

func (p *player) pushState() {
	snap := p.session.Snapshot()
	p.sendFrame(ServerFrame{Type: FrameState, State: &snap})
}

func (p *player) writeLoop() {
	for data := range p.out {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := p.conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			return
		}
	}
}
