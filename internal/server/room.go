package server

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/vincewoo/seatrush/internal/seatrush"
)

// roomIdleTimeout closes rooms nobody ever joined.
const roomIdleTimeout = 10 * time.Minute

// Room pairs up to two websocket clients and runs one seatrush session per
// client. A single actor goroutine owns all game state: client frames, peer
// messages, and the one-second tick are serialized through it, so a peer
// message is always applied to completion before the next tick fires.
type Room struct {
	Code string
	Mode Mode

	logger  *slog.Logger
	cfg     RoomConfig
	seed    int64
	onClose func()

	events    chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Actor-owned; never touched outside the run goroutine.
	players   [2]*player
	relay     [2][]seatrush.Message
	started   bool
	createdAt time.Time
}

type player struct {
	slot    int
	room    *Room
	conn    *websocket.Conn
	out     chan []byte
	session *seatrush.Session

	verify       *pendingChallenge
	notifiedOver bool
	overReason   string
}

// pendingChallenge tracks the one verification challenge a player may have
// in flight: the arbiter's continuations plus the timeout armed on the
// session clock. Every exit path clears it and stops the timer.
type pendingChallenge struct {
	id        string
	onSuccess func()
	onExit    func()
	timer     *seatrush.Timer
}

func newRoom(code string, mode Mode, cfg RoomConfig, logger *slog.Logger, seed int64, onClose func()) *Room {
	r := &Room{
		Code:      code,
		Mode:      mode,
		logger:    logger.With("room", code),
		cfg:       cfg,
		seed:      seed,
		onClose:   onClose,
		events:    make(chan func(), 32),
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}
	go r.run()
	return r
}

func (r *Room) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case fn := <-r.events:
			fn()
			r.settle()
		case <-ticker.C:
			r.tick()
			r.settle()
		}
	}
}

// do posts work onto the actor. Reports false if the room already closed.
func (r *Room) do(fn func()) bool {
	select {
	case r.events <- fn:
		return true
	case <-r.done:
		return false
	}
}

// Attach claims a slot for a connection: the first socket hosts, the second
// is the guest. Versus rooms start as soon as both sides are present.
func (r *Room) Attach(conn *websocket.Conn, grid seatrush.GridConfig) (*player, error) {
	type result struct {
		p   *player
		err error
	}
	res := make(chan result, 1)
	if !r.do(func() {
		p, err := r.attach(conn, grid)
		res <- result{p, err}
	}) {
		return nil, ErrRoomClosed
	}
	select {
	case out := <-res:
		return out.p, out.err
	case <-r.done:
		return nil, ErrRoomClosed
	}
}

func (r *Room) attach(conn *websocket.Conn, grid seatrush.GridConfig) (*player, error) {
	if r.started {
		return nil, ErrRoomClosed // no mid-game joins, no resume
	}

	slot := -1
	limit := 2
	if r.Mode == ModeSolo {
		limit = 1
	}
	for i := 0; i < limit; i++ {
		if r.players[i] == nil {
			slot = i
			break
		}
	}
	if slot == -1 {
		return nil, ErrRoomFull
	}

	p := &player{
		slot: slot,
		room: r,
		conn: conn,
		out:  make(chan []byte, 64),
	}
	p.session = seatrush.NewSession(seatrush.Config{
		Grid:        grid,
		Duration:    r.cfg.Duration,
		SkipPenalty: r.cfg.SkipPenalty,
		Multiplayer: r.Mode == ModeVersus,
		Host:        slot == 0,
	}, rand.New(rand.NewSource(r.seed+int64(slot))), newChallengeRegistry(p), r.sender(1-slot))

	r.players[slot] = p
	go p.writeLoop()
	r.logger.Info("player attached", "slot", slot)

	if r.Mode == ModeVersus && r.players[0] != nil && r.players[1] != nil {
		r.startVersus()
	}
	return p, nil
}

// sender queues a session's outbound peer messages for the other slot. The
// queue is drained after the current event completes, so a message is never
// applied while its sender is mid-mutation.
func (r *Room) sender(dest int) seatrush.Sender {
	return func(msg seatrush.Message) {
		r.relay[dest] = append(r.relay[dest], msg)
	}
}

// startVersus negotiates the grid, then starts the guest before the host so
// the host's seed broadcasts land on the guest's freshly generated grid.
func (r *Room) startVersus() {
	r.players[0].session.SendGridOffer()
	r.players[1].session.SendGridOffer()
	r.flushRelay()

	r.players[1].session.Start()
	r.players[0].session.Start()
	r.started = true
	r.logger.Info("versus game started", "grid", r.players[0].session.Grid())
}

// Dispatch hands a client frame to the actor.
func (r *Room) Dispatch(slot int, frame ClientFrame) {
	r.do(func() { r.handleFrame(slot, frame) })
}

func (r *Room) handleFrame(slot int, frame ClientFrame) {
	p := r.players[slot]
	if p == nil {
		return
	}
	switch frame.Type {
	case "start":
		if r.Mode == ModeSolo && !r.started {
			r.started = true
			p.session.Start()
		}
	case "seatClick":
		p.session.ToggleSeat(frame.SeatID)
	case "removeSeat":
		p.session.RemoveSeat(frame.SeatID)
	case "checkout":
		p.session.InitiateCheckout()
	case "skip":
		p.session.SkipTarget()
	case "verification":
		p.resolveChallenge(frame.Passed)
	default:
		p.sendFrame(ServerFrame{Type: FrameError, Error: "unknown frame type"})
	}
}

// Detach releases a slot. A disconnect mid-game force-ends both sessions;
// there is no reconnection.
func (r *Room) Detach(slot int) {
	r.do(func() { r.detach(slot) })
}

func (r *Room) detach(slot int) {
	p := r.players[slot]
	if p == nil {
		return
	}
	r.players[slot] = nil
	close(p.out)
	p.clearChallenge()

	if p.session.Running() {
		p.session.End(true) // gameEnd reaches the peer through the relay
	}
	if other := r.players[1-slot]; other != nil && other.session.Running() {
		other.overReason = "opponent disconnected"
	}
	r.logger.Info("player detached", "slot", slot)

	if r.players[0] == nil && r.players[1] == nil {
		r.close()
	}
}

func (r *Room) tick() {
	for _, p := range r.players {
		if p != nil && p.session.Running() {
			p.session.Tick()
		}
	}
	if !r.started && r.players[0] == nil && r.players[1] == nil &&
		time.Since(r.createdAt) > roomIdleTimeout {
		r.close()
	}
}

// settle runs after every event and tick: relay queued peer messages to
// convergence, push fresh snapshots to live sessions, and report game over
// exactly once. Ended sessions go quiet after the gameOver frame.
func (r *Room) settle() {
	r.flushRelay()
	for _, p := range r.players {
		if p == nil {
			continue
		}
		if p.session.Ended() {
			if !p.notifiedOver {
				p.notifiedOver = true
				p.clearChallenge()
				sum := p.session.Summary()
				p.sendFrame(ServerFrame{Type: FrameGameOver, Reason: p.overReason, Summary: &sum})
			}
			continue
		}
		p.pushState()
	}
}

// flushRelay applies queued peer messages until none remain. Handling one
// message may queue replies (grid negotiation does), hence the loop.
func (r *Room) flushRelay() {
	for {
		moved := false
		for slot := 0; slot < 2; slot++ {
			queued := r.relay[slot]
			if len(queued) == 0 {
				continue
			}
			r.relay[slot] = nil
			moved = true
			if p := r.players[slot]; p != nil {
				for _, msg := range queued {
					p.session.HandlePeerMessage(msg)
				}
			}
		}
		if !moved {
			return
		}
	}
}

func (r *Room) close() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.onClose()
	})
}

// RoomStatus is the lobby view of a room.
type RoomStatus struct {
	Code    string `json:"code"`
	Mode    string `json:"mode"`
	Players int    `json:"players"`
	Started bool   `json:"started"`
}

// Status snapshots the room through its actor.
func (r *Room) Status() (RoomStatus, error) {
	res := make(chan RoomStatus, 1)
	if !r.do(func() {
		n := 0
		for _, p := range r.players {
			if p != nil {
				n++
			}
		}
		res <- RoomStatus{Code: r.Code, Mode: string(r.Mode), Players: n, Started: r.started}
	}) {
		return RoomStatus{}, ErrRoomClosed
	}
	select {
	case st := <-res:
		return st, nil
	case <-r.done:
		return RoomStatus{}, ErrRoomClosed
	}
}
