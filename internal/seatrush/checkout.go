package seatrush

// verificationChance is the probability an uncontested checkout still has a
// challenge interposed.
const verificationChance = 0.6

// quantityBonus scales positive savings by purchase size: one ticket ×1.0,
// six tickets ×2.0. Penalties are never multiplied.
func quantityBonus(count int) float64 {
	return 1 + 0.2*float64(count-1)
}

// VerificationStep is one of the interchangeable arcade challenges. Start
// takes no game-state arguments; the step eventually calls exactly one of
// the two continuations: onSuccess commits the pending checkout, onExit
// abandons it (timeout, cancel, wrong input, internal loss — all identical).
// A step must never mutate the market, cart, or score itself.
type VerificationStep interface {
	ID() string
	Start(onSuccess, onExit func())
}

// StepRegistry holds the available challenges. The arbiter depends only on
// the VerificationStep interface, never on concrete challenge types.
type StepRegistry struct {
	steps []VerificationStep
}

func NewStepRegistry() *StepRegistry {
	return &StepRegistry{}
}

func (r *StepRegistry) Register(step VerificationStep) {
	r.steps = append(r.steps, step)
}

func (r *StepRegistry) Len() int { return len(r.steps) }

func (r *StepRegistry) pick(rng Rand) VerificationStep {
	if len(r.steps) == 0 {
		return nil
	}
	return r.steps[rng.Intn(len(r.steps))]
}

// Contested reports whether any local cart seat also sits in the opponent's
// cart. Contested checkouts always get a verification step.
func (s *Session) Contested() bool {
	if !s.cfg.Multiplayer {
		return false
	}
	for _, item := range s.cart {
		for _, id := range s.opponentCart {
			if item.SeatID == id {
				return true
			}
		}
	}
	return false
}

// InitiateCheckout starts one checkout attempt. Contention forces a
// verification step; otherwise a single uniform draw interposes one with
// probability 0.6. Only one attempt can be in flight — checkout is modal.
func (s *Session) InitiateCheckout() {
	if !s.running || len(s.cart) == 0 || s.activeStep != nil {
		return
	}

	if s.Contested() || s.rng.Float64() < verificationChance {
		step := s.steps.pick(s.rng)
		if step == nil {
			s.completeCheckout()
			return
		}
		s.activeStep = step
		step.Start(s.stepSucceeded, s.stepExited)
		return
	}
	s.completeCheckout()
}

// ActiveStep returns the challenge currently gating checkout, or nil.
func (s *Session) ActiveStep() VerificationStep { return s.activeStep }

func (s *Session) stepSucceeded() {
	s.activeStep = nil
	s.completeCheckout()
}

// stepExited abandons the attempt. Cart and target are left untouched.
func (s *Session) stepExited() {
	s.activeStep = nil
}

// completeCheckout commits the sale. Validity is recomputed even when a
// challenge already passed, guarding against the cart mutating while the
// challenge ran; an invalid commit is a silent no-op that keeps the cart.
func (s *Session) completeCheckout() {
	verdict := s.CartVerdict()
	if !verdict.Valid {
		return
	}

	savings := 0
	seats := make([]PurchasedSeat, 0, len(s.cart))
	ids := make([]string, 0, len(s.cart))
	for _, item := range s.cart {
		savings += item.BasePrice - item.Price
		seats = append(seats, PurchasedSeat{SeatID: item.SeatID, Price: item.Price, BasePrice: item.BasePrice})
		ids = append(ids, item.SeatID)
	}

	reward := float64(savings)
	if savings > 0 {
		reward *= quantityBonus(len(s.cart))
	}

	s.score.addPurchase(reward, savings, len(s.cart), seats, s.now())
	s.market.Purchase(ids)

	for _, id := range ids {
		s.send(Message{Type: MsgSeatClaimed, SeatID: id})
	}
	s.send(Message{Type: MsgScoreUpdate, Score: s.score.Points()})

	s.cart = nil
	s.send(Message{Type: MsgCartUpdate, Cart: []string{}})

	s.newTarget()
}

// SkipTarget abandons the current target for a flat penalty. Carted seats
// return to the market unpurchased.
func (s *Session) SkipTarget() {
	if !s.running {
		return
	}

	s.score.addSkip(s.cfg.SkipPenalty)

	for _, item := range s.cart {
		if seat := s.market.Seat(item.SeatID); seat != nil {
			seat.InCart = false
		}
	}
	s.cart = nil
	s.send(Message{Type: MsgCartUpdate, Cart: []string{}})

	s.newTarget()
}
