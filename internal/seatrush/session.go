package seatrush

import "time"

const (
	// DefaultDuration is the game length in seconds.
	DefaultDuration = 120
	// DefaultSkipPenalty is subtracted from the score on every skip.
	DefaultSkipPenalty = 50

	// maxTarget caps the target ticket count regardless of grid width.
	maxTarget = 6

	// eventDuration is how long a sale or surge window stays active.
	eventDuration = 20

	// availabilityPeriod and pricePeriod key the periodic market effects off
	// the countdown value, preserving the phase coupling of the original
	// rules: a flip fires when the remaining time is divisible by 2, a price
	// refresh when divisible by 3.
	availabilityPeriod = 2
	pricePeriod        = 3

	// claimHighlight is how long an opponent-claimed seat stays highlighted.
	claimHighlight = 3 * time.Second
)

// Config fixes a session's parameters for one game.
type Config struct {
	Grid        GridConfig
	Duration    int // seconds
	SkipPenalty int
	Multiplayer bool
	Host        bool
}

// Sender delivers an outbound peer message. Sessions call it synchronously;
// a solo session gets a no-op.
type Sender func(Message)

// Session is the context object for one player's game: it owns the market,
// cart, target, score, event schedule, and the local view of the opponent.
// Construct one per game and discard it on restart. All methods must be
// called from a single goroutine; the only cross-boundary mutation is a
// peer message handed to HandlePeerMessage.
type Session struct {
	cfg    Config
	rng    Rand
	market *Market
	score  Score
	steps  *StepRegistry
	clock  *Scheduler
	send   Sender
	now    func() time.Time

	cart      []CartItem
	target    int
	remaining int
	running   bool
	ended     bool

	saleStart   int // countdown value at which the sale window opens
	surgeStart  int
	saleActive  bool
	surgeActive bool

	activeStep    VerificationStep
	opponentScore float64
	opponentCart  []string
}

func NewSession(cfg Config, rng Rand, steps *StepRegistry, send Sender) *Session {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	if cfg.SkipPenalty <= 0 {
		cfg.SkipPenalty = DefaultSkipPenalty
	}
	if send == nil {
		send = func(Message) {}
	}
	if steps == nil {
		steps = NewStepRegistry()
	}
	return &Session{
		cfg:   cfg,
		rng:   rng,
		steps: steps,
		clock: NewScheduler(),
		send:  send,
		now:   time.Now,
	}
}

// authoritative reports whether this session drives market ticks and event
// scheduling. Guests mirror the host.
func (s *Session) authoritative() bool {
	return !s.cfg.Multiplayer || s.cfg.Host
}

func (s *Session) Running() bool          { return s.running }
func (s *Session) Grid() GridConfig       { return s.cfg.Grid }
func (s *Session) Market() *Market        { return s.market }
func (s *Session) Score() *Score          { return &s.score }
func (s *Session) Clock() *Scheduler      { return s.clock }
func (s *Session) Target() int            { return s.target }
func (s *Session) Cart() []CartItem       { return s.cart }
func (s *Session) Remaining() int         { return s.remaining }
func (s *Session) OpponentCart() []string { return s.opponentCart }

// Start begins the game: fresh market, fresh ledger, first target, and —
// when authoritative — the sale/surge schedule. The host pushes target,
// event times, and its seed availability to the guest.
func (s *Session) Start() {
	s.running = true
	s.ended = false
	s.remaining = s.cfg.Duration
	s.cart = nil
	s.score = Score{}
	s.opponentScore = 0
	s.opponentCart = nil
	s.saleActive = false
	s.surgeActive = false
	s.clock.Reset()

	s.market = NewMarket(s.cfg.Grid, s.rng)

	s.newTarget()

	if s.authoritative() {
		s.saleStart, s.surgeStart = s.drawEventTimes()
		if s.cfg.Multiplayer {
			s.send(Message{Type: MsgEventTimes, SaleStart: s.saleStart, SurgeStart: s.surgeStart})
			s.send(Message{Type: MsgInitialState, Availability: s.market.InitialAvailability()})
		}
	}
}

// drawEventTimes places the 20s sale and surge windows so both complete
// before the game ends and never overlap (25s minimum separation). Returned
// as countdown values. Games too short for a full window get none.
func (s *Session) drawEventTimes() (saleStart, surgeStart int) {
	span := s.cfg.Duration - eventDuration - 30
	if span <= 0 {
		return -1, -1
	}

	sale := s.rng.Intn(span) + 10
	if sale-(eventDuration+5) < 10 && sale+(eventDuration+5) > span+9 {
		// No draw in [10, span+9] clears the sale by the 25s separation, so
		// rejection sampling would never terminate. Schedule only the sale.
		return s.cfg.Duration - sale, -1
	}
	surge := sale
	for abs(surge-sale) < eventDuration+5 {
		surge = s.rng.Intn(span) + 10
	}
	return s.cfg.Duration - sale, s.cfg.Duration - surge
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// newTarget draws the next target ticket count in [1, min(columns, 6)]. The
// host pushes its draw to the guest; a guest's own draw is a local stopgap
// that the next host push overwrites.
func (s *Session) newTarget() {
	max := s.cfg.Grid.Columns
	if max > maxTarget {
		max = maxTarget
	}
	if max < 1 {
		max = 1
	}
	s.target = s.rng.Intn(max) + 1

	if s.cfg.Multiplayer && s.cfg.Host {
		s.send(Message{Type: MsgTargetUpdate, Target: s.target})
	}
}

// Tick advances the countdown one second: event windows open and close,
// the authoritative side runs the market effects, challenge countdowns
// advance, and the game ends at zero.
func (s *Session) Tick() {
	if !s.running {
		return
	}
	s.remaining--

	if s.remaining == s.saleStart {
		s.saleActive = true
	} else if s.saleActive && s.remaining == s.saleStart-eventDuration {
		s.saleActive = false
	}
	if s.remaining == s.surgeStart {
		s.surgeActive = true
	} else if s.surgeActive && s.remaining == s.surgeStart-eventDuration {
		s.surgeActive = false
	}

	if s.authoritative() {
		if s.remaining%availabilityPeriod == 0 {
			if changes := s.market.ToggleAvailability(s.inOpponentCart); len(changes) > 0 && s.cfg.Multiplayer {
				s.send(Message{Type: MsgAvailabilityUpdate, Availability: changes})
			}
		}
		if s.remaining%pricePeriod == 0 {
			if updates := s.market.RefreshPrices(s.saleActive, s.surgeActive, s.inOpponentCart); len(updates) > 0 && s.cfg.Multiplayer {
				s.send(Message{Type: MsgPriceUpdate, Prices: updates})
			}
		}
	}

	s.clock.Advance(1)

	if s.remaining <= 0 {
		s.End(true)
	}
}

// inOpponentCart protects the opponent's carted seats from market effects.
func (s *Session) inOpponentCart(id string) bool {
	for _, c := range s.opponentCart {
		if c == id {
			return true
		}
	}
	return false
}

// SaleActive and SurgeActive report the current pricing event windows.
func (s *Session) SaleActive() bool  { return s.saleActive }
func (s *Session) SurgeActive() bool { return s.surgeActive }

// ToggleSeat adds an available seat to the cart — snapshotting its price —
// or removes it if already carted. Peers learn the new cart contents.
func (s *Session) ToggleSeat(id string) {
	if !s.running {
		return
	}
	seat := s.market.Seat(id)
	if seat == nil || (!seat.Available && !seat.InCart) {
		return
	}

	if seat.InCart {
		s.removeFromCart(seat)
	} else {
		seat.InCart = true
		s.cart = append(s.cart, CartItem{SeatID: seat.ID, Price: seat.CurrentPrice, BasePrice: seat.BasePrice})
	}
	s.sendCartUpdate()
}

// RemoveSeat removes a seat from the cart without toggling it back in.
func (s *Session) RemoveSeat(id string) {
	seat := s.market.Seat(id)
	if seat == nil || !seat.InCart {
		return
	}
	s.removeFromCart(seat)
	s.sendCartUpdate()
}

func (s *Session) removeFromCart(seat *Seat) {
	seat.InCart = false
	kept := s.cart[:0]
	for _, item := range s.cart {
		if item.SeatID != seat.ID {
			kept = append(kept, item)
		}
	}
	s.cart = kept
}

func (s *Session) sendCartUpdate() {
	if !s.cfg.Multiplayer {
		return
	}
	ids := make([]string, 0, len(s.cart))
	for _, item := range s.cart {
		ids = append(ids, item.SeatID)
	}
	s.send(Message{Type: MsgCartUpdate, Cart: ids})
}

// CartVerdict validates the current cart against the target under the
// current display layout.
func (s *Session) CartVerdict() Verdict {
	positions := s.market.DisplayPositions(s.cart, s.cfg.Grid.Columns)
	return Evaluate(positions, s.cart, s.target)
}

// End stops the game. Idempotent; notifyPeer emits gameEnd so the opponent
// force-ends too (never set when ending *because* the peer ended, or the
// two sessions would ping-pong).
func (s *Session) End(notifyPeer bool) {
	if s.ended {
		return
	}
	s.running = false
	s.ended = true
	s.clock.Reset()
	s.activeStep = nil

	if notifyPeer && s.cfg.Multiplayer {
		s.send(Message{Type: MsgGameEnd})
	}
}

// Ended reports whether the game has finished.
func (s *Session) Ended() bool { return s.ended }
