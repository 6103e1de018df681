package server

import "github.com/vincewoo/seatrush/internal/seatrush"

// The verification challenges and their time limits in seconds. The server
// only arbitrates outcomes; the minigames themselves run on the client.
var challengeTable = []struct {
	ID      string
	Seconds int
}{
	{"gasPump", 15},
	{"puzzle", 20},
	{"fishing", 10},
	{"nba", 20},
	{"lunarLander", 30},
	{"tanks", 25},
	{"darts", 20},
	{"chess", 40},
	{"flappyBird", 20},
	{"skiFree", 25},
	{"pool", 30},
	{"simon", 25},
	{"minesweeper", 40},
	{"blackjack", 15},
	{"snake", 30},
}

func newChallengeRegistry(p *player) *seatrush.StepRegistry {
	reg := seatrush.NewStepRegistry()
	for _, c := range challengeTable {
		reg.Register(&remoteStep{id: c.ID, seconds: c.Seconds, player: p})
	}
	return reg
}

// remoteStep delegates a challenge to the client. Start tells the client
// which minigame to run and arms a timeout on the session clock; the
// verification frame, the timeout, or game end resolves it, whichever
// comes first.
type remoteStep struct {
	id      string
	seconds int
	player  *player
}

func (s *remoteStep) ID() string { return s.id }

func (s *remoteStep) Start(onSuccess, onExit func()) {
	p := s.player
	p.clearChallenge()

	pending := &pendingChallenge{id: s.id, onSuccess: onSuccess, onExit: onExit}
	pending.timer = p.session.Clock().After(s.seconds, func() {
		if p.verify != pending {
			return
		}
		p.verify = nil
		p.sendFrame(ServerFrame{Type: FrameChallengeEnd, Passed: boolPtr(false), Reason: "timeout"})
		pending.onExit()
	})
	p.verify = pending
	p.sendFrame(ServerFrame{Type: FrameChallenge, Challenge: s.id, Seconds: s.seconds})
}

// resolveChallenge settles the in-flight challenge from a verification
// frame. Frames with nothing pending are ignored.
func (p *player) resolveChallenge(passed bool) {
	pending := p.verify
	if pending == nil {
		return
	}
	p.verify = nil
	pending.timer.Stop()
	p.sendFrame(ServerFrame{Type: FrameChallengeEnd, Passed: boolPtr(passed)})
	if passed {
		pending.onSuccess()
	} else {
		pending.onExit()
	}
}

// clearChallenge abandons any in-flight challenge without invoking its
// continuations. Used on disconnect and game over, where the session is
// being torn down anyway.
func (p *player) clearChallenge() {
	if p.verify == nil {
		return
	}
	p.verify.timer.Stop()
	p.verify = nil
}

func boolPtr(b bool) *bool { return &b }
