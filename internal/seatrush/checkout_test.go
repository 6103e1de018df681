package seatrush

import "testing"

// startedSession builds a running solo session with a deterministic market,
// then installs the scripted rand so the checkout draws are forced.
func startedSession(t *testing.T, rng Rand, steps *StepRegistry, rec *recorder) *Session {
	t.Helper()
	var send Sender
	if rec != nil {
		send = rec.send
	}
	s := NewSession(Config{Grid: testGrid}, seededRand(1), steps, send)
	s.Start()
	s.rng = rng
	return s
}

// primeSeat pins a seat's prices and puts it in the cart.
func primeSeat(t *testing.T, s *Session, id string, price, base int) {
	t.Helper()
	seat := s.market.Seat(id)
	if seat == nil {
		t.Fatalf("no seat %s", id)
	}
	seat.Available = true
	seat.CurrentPrice = price
	seat.BasePrice = base
	s.ToggleSeat(id)
}

func TestDirectCommitAppliesQuantityBonus(t *testing.T) {
	// Target 2, adjacent pair, savings 20+10, forced no-challenge draw.
	s := startedSession(t, &scriptedRand{floats: []float64{0.9}}, nil, nil)
	s.target = 2
	primeSeat(t, s, "A1", 100, 120)
	primeSeat(t, s, "A2", 90, 100)

	s.InitiateCheckout()

	if got := s.score.Points(); got != 36 {
		t.Errorf("score = %v, want 36 (30 savings × 1.2)", got)
	}
	if s.score.TotalSaved() != 30 {
		t.Errorf("totalSaved = %d, want 30", s.score.TotalSaved())
	}
	if s.score.TicketsPurchased() != 2 {
		t.Errorf("ticketsPurchased = %d, want 2", s.score.TicketsPurchased())
	}
	for _, id := range []string{"A1", "A2"} {
		if !s.market.Seat(id).Purchased {
			t.Errorf("seat %s not marked purchased", id)
		}
	}
	if len(s.cart) != 0 {
		t.Errorf("cart not cleared: %v", s.cart)
	}
	if len(s.score.History()) != 1 || len(s.score.History()[0].Seats) != 2 {
		t.Errorf("history = %+v", s.score.History())
	}
}

func TestCommitThreeSeatsBonus(t *testing.T) {
	s := startedSession(t, &scriptedRand{floats: []float64{0.9}}, nil, nil)
	s.target = 3
	primeSeat(t, s, "B1", 80, 100)  // +20
	primeSeat(t, s, "B2", 100, 100) // 0
	primeSeat(t, s, "B3", 90, 100)  // +10

	s.InitiateCheckout()

	// 30 total savings × (1 + 0.2×2) = 42.
	if got := s.score.Points(); got != 42 {
		t.Errorf("score = %v, want 42", got)
	}
}

func TestCommitPenaltyIsNotMultiplied(t *testing.T) {
	s := startedSession(t, &scriptedRand{floats: []float64{0.9}}, nil, nil)
	s.target = 1
	primeSeat(t, s, "C1", 110, 100) // paid 10 over base

	s.InitiateCheckout()

	if got := s.score.Points(); got != -10 {
		t.Errorf("score = %v, want -10 exactly", got)
	}
	if s.score.TotalSaved() != -10 {
		t.Errorf("totalSaved = %d, want -10", s.score.TotalSaved())
	}
}

func TestLowDrawInterposesChallenge(t *testing.T) {
	steps := NewStepRegistry()
	step := &fakeStep{id: "snake"}
	steps.Register(step)

	s := startedSession(t, &scriptedRand{floats: []float64{0.1}}, steps, nil)
	s.target = 1
	primeSeat(t, s, "A1", 90, 100)

	s.InitiateCheckout()

	if step.started != 1 {
		t.Fatalf("challenge started %d times, want 1", step.started)
	}
	if s.score.TicketsPurchased() != 0 {
		t.Fatal("commit ran before the challenge resolved")
	}

	step.onSuccess()
	if s.score.TicketsPurchased() != 1 {
		t.Fatal("success continuation did not commit")
	}
	if s.ActiveStep() != nil {
		t.Fatal("step still active after success")
	}
}

func TestChallengeFailureLeavesCartAndTarget(t *testing.T) {
	steps := NewStepRegistry()
	step := &fakeStep{id: "darts"}
	steps.Register(step)

	s := startedSession(t, &scriptedRand{floats: []float64{0.1}}, steps, nil)
	s.target = 1
	primeSeat(t, s, "A1", 90, 100)
	targetBefore := s.target

	s.InitiateCheckout()
	step.onExit()

	if len(s.cart) != 1 || s.cart[0].SeatID != "A1" {
		t.Errorf("cart after failed challenge = %v", s.cart)
	}
	if s.target != targetBefore {
		t.Errorf("target changed on failed challenge: %d -> %d", targetBefore, s.target)
	}
	if s.score.Points() != 0 {
		t.Errorf("score moved on failed challenge: %v", s.score.Points())
	}
	if s.market.Seat("A1").Purchased {
		t.Error("seat purchased on failed challenge")
	}
}

func TestCheckoutIsModal(t *testing.T) {
	steps := NewStepRegistry()
	step := &fakeStep{id: "pool"}
	steps.Register(step)

	s := startedSession(t, &scriptedRand{floats: []float64{0.1, 0.1}}, steps, nil)
	s.target = 1
	primeSeat(t, s, "A1", 90, 100)

	s.InitiateCheckout()
	s.InitiateCheckout()

	if step.started != 1 {
		t.Fatalf("challenge started %d times while modal", step.started)
	}
}

func TestContestedCheckoutForcesChallenge(t *testing.T) {
	steps := NewStepRegistry()
	step := &fakeStep{id: "chess"}
	steps.Register(step)

	rec := &recorder{}
	s := NewSession(Config{Grid: testGrid, Multiplayer: true}, seededRand(1), steps, rec.send)
	s.Start()
	// Draw would normally skip the challenge; contention must override it.
	s.rng = &scriptedRand{floats: []float64{0.99}}
	s.target = 1
	primeSeat(t, s, "A1", 90, 100)
	s.opponentCart = []string{"A1", "B4"}

	s.InitiateCheckout()

	if step.started != 1 {
		t.Fatal("contested checkout skipped the challenge")
	}
}

func TestInvalidCommitIsSilentNoOp(t *testing.T) {
	s := startedSession(t, &scriptedRand{floats: []float64{0.9}}, nil, nil)
	s.target = 3 // cart will hold one seat
	primeSeat(t, s, "A1", 90, 100)

	s.InitiateCheckout()

	if len(s.cart) != 1 {
		t.Errorf("invalid commit discarded the cart: %v", s.cart)
	}
	if s.score.Points() != 0 || s.score.TicketsPurchased() != 0 {
		t.Error("invalid commit moved the ledger")
	}
	if s.market.Seat("A1").Purchased {
		t.Error("invalid commit purchased a seat")
	}
}

func TestEmptyCartCheckoutNoOps(t *testing.T) {
	s := startedSession(t, &scriptedRand{floats: []float64{0.1}}, nil, nil)
	s.InitiateCheckout()
	if s.score.Points() != 0 || len(s.score.History()) != 0 {
		t.Error("empty cart checkout had an effect")
	}
}

func TestSkipTarget(t *testing.T) {
	s := startedSession(t, &scriptedRand{floats: []float64{0.9}, ints: []int{4}}, nil, nil)
	s.target = 2
	primeSeat(t, s, "A1", 90, 100)

	s.SkipTarget()

	if got := s.score.Points(); got != -50 {
		t.Errorf("score = %v, want -50", got)
	}
	if s.score.Skips() != 1 {
		t.Errorf("skips = %d, want 1", s.score.Skips())
	}
	if len(s.cart) != 0 {
		t.Errorf("cart not cleared on skip: %v", s.cart)
	}
	seat := s.market.Seat("A1")
	if seat.Purchased || seat.InCart || !seat.Available {
		t.Errorf("skipped seat should return to the market: %+v", seat)
	}
	if s.target != 5 {
		t.Errorf("target = %d, want fresh draw 5", s.target)
	}

	// A second skip subtracts exactly 50 again, cart or no cart.
	s.SkipTarget()
	if got := s.score.Points(); got != -100 {
		t.Errorf("score after second skip = %v, want -100", got)
	}
	if s.score.Skips() != 2 {
		t.Errorf("skips = %d, want 2", s.score.Skips())
	}
}

func TestCommitBroadcastsClaimsAndScore(t *testing.T) {
	steps := NewStepRegistry()
	rec := &recorder{}
	s := NewSession(Config{Grid: testGrid, Multiplayer: true, Host: true}, seededRand(1), steps, rec.send)
	s.Start()
	s.rng = &scriptedRand{floats: []float64{0.9}}
	s.target = 2
	primeSeat(t, s, "A1", 100, 120)
	primeSeat(t, s, "A2", 90, 100)
	rec.messages = nil

	s.InitiateCheckout()

	claims := rec.ofType(MsgSeatClaimed)
	if len(claims) != 2 {
		t.Fatalf("seatClaimed messages = %d, want 2", len(claims))
	}
	if scores := rec.ofType(MsgScoreUpdate); len(scores) != 1 || scores[0].Score != 36 {
		t.Fatalf("scoreUpdate = %+v", scores)
	}
	carts := rec.ofType(MsgCartUpdate)
	if len(carts) == 0 || len(carts[len(carts)-1].Cart) != 0 {
		t.Fatalf("final cartUpdate should be empty, got %+v", carts)
	}
	if targets := rec.ofType(MsgTargetUpdate); len(targets) != 1 {
		t.Fatalf("host should push exactly one fresh target, got %d", len(targets))
	}
}
