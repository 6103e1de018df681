package seatrush

// Seat display states.
const (
	SeatAvailable   = "available"
	SeatInCart      = "in-cart"
	SeatUnavailable = "unavailable"
	SeatOpponent    = "opponent"
)

// SeatView is one seat with its derived display state. "opponent" is only
// reported while the claim highlight is fresh; afterwards the seat renders
// as plain unavailable, matching the fade in the original chart.
type SeatView struct {
	ID        string `json:"id"`
	Price     int    `json:"price"`
	BasePrice int    `json:"basePrice"`
	State     string `json:"state"`
}

// CartView is the cart with its validity verdict.
type CartView struct {
	Items   []CartItem `json:"items"`
	Total   int        `json:"total"`
	Verdict Verdict    `json:"verdict"`
}

// Snapshot carries everything the UI needs after any mutation of seats,
// cart, or score.
type Snapshot struct {
	Running       bool       `json:"running"`
	TimeRemaining int        `json:"timeRemaining"`
	Target        int        `json:"targetTicketCount"`
	Score         float64    `json:"score"`
	OpponentScore float64    `json:"opponentScore,omitempty"`
	TotalSaved    int        `json:"totalSaved"`
	Tickets       int        `json:"ticketsPurchased"`
	Skips         int        `json:"skips"`
	SaleActive    bool       `json:"saleActive"`
	SurgeActive   bool       `json:"surgeActive"`
	Contested     bool       `json:"contested"`
	Grid          GridConfig `json:"grid"`
	Seats         []SeatView `json:"seats"`
	Cart          CartView   `json:"cart"`
}

// Snapshot renders the session for the UI boundary.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Running:       s.running,
		TimeRemaining: s.remaining,
		Target:        s.target,
		Score:         s.score.Points(),
		TotalSaved:    s.score.TotalSaved(),
		Tickets:       s.score.TicketsPurchased(),
		Skips:         s.score.Skips(),
		SaleActive:    s.saleActive,
		SurgeActive:   s.surgeActive,
		Contested:     s.Contested(),
		Grid:          s.cfg.Grid,
	}
	if s.cfg.Multiplayer {
		snap.OpponentScore = s.opponentScore
	}
	if s.market == nil {
		return snap
	}

	now := s.now()
	snap.Seats = make([]SeatView, 0, len(s.market.Seats()))
	for _, seat := range s.market.Seats() {
		view := SeatView{ID: seat.ID, Price: seat.CurrentPrice, BasePrice: seat.BasePrice}
		switch {
		case seat.InCart:
			view.State = SeatInCart
		case seat.OwnedByOpponent && now.Sub(seat.ClaimedAt) < claimHighlight:
			view.State = SeatOpponent
		case seat.Available:
			view.State = SeatAvailable
		default:
			view.State = SeatUnavailable
		}
		snap.Seats = append(snap.Seats, view)
	}

	total := 0
	for _, item := range s.cart {
		total += item.Price
	}
	snap.Cart = CartView{Items: s.cart, Total: total, Verdict: s.CartVerdict()}
	if snap.Cart.Items == nil {
		snap.Cart.Items = []CartItem{}
	}
	return snap
}

// SummarySeat is one purchased seat with its deal quality.
type SummarySeat struct {
	SeatID          string  `json:"seatId"`
	Price           int     `json:"price"`
	BasePrice       int     `json:"basePrice"`
	DiscountPercent float64 `json:"discountPercent"`
}

// SummaryPurchase is one history entry of the end-of-game summary.
type SummaryPurchase struct {
	Seats []SummarySeat `json:"seats"`
}

// Summary is the end-of-game review.
type Summary struct {
	Score            float64           `json:"score"`
	OpponentScore    float64           `json:"opponentScore,omitempty"`
	TotalSaved       int               `json:"totalSaved"`
	TicketsPurchased int               `json:"ticketsPurchased"`
	Skips            int               `json:"skips"`
	SkipPenalty      int               `json:"skipPenaltyTotal"`
	Purchases        []SummaryPurchase `json:"purchases"`
}

// Summary builds the end-of-game review from the ledger.
func (s *Session) Summary() Summary {
	sum := Summary{
		Score:            s.score.Points(),
		TotalSaved:       s.score.TotalSaved(),
		TicketsPurchased: s.score.TicketsPurchased(),
		Skips:            s.score.Skips(),
		SkipPenalty:      s.score.Skips() * s.cfg.SkipPenalty,
	}
	if s.cfg.Multiplayer {
		sum.OpponentScore = s.opponentScore
	}
	for _, p := range s.score.History() {
		sp := SummaryPurchase{}
		for _, seat := range p.Seats {
			sp.Seats = append(sp.Seats, SummarySeat{
				SeatID:          seat.SeatID,
				Price:           seat.Price,
				BasePrice:       seat.BasePrice,
				DiscountPercent: DiscountPercent(seat.BasePrice, seat.Price),
			})
		}
		sum.Purchases = append(sum.Purchases, sp)
	}
	return sum
}
