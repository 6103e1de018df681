package seatrush

import "time"

// PurchasedSeat is one line of a purchase history entry.
type PurchasedSeat struct {
	SeatID    string `json:"seatId"`
	Price     int    `json:"price"`
	BasePrice int    `json:"basePrice"`
}

// Purchase is one valid completed checkout.
type Purchase struct {
	Seats []PurchasedSeat `json:"seats"`
	At    time.Time       `json:"timestamp"`
}

// Score is the running ledger for one session. It stores what checkout and
// skip hand it and has no behavior of its own.
type Score struct {
	points           float64
	totalSaved       int
	ticketsPurchased int
	skips            int
	history          []Purchase
}

func (s *Score) Points() float64        { return s.points }
func (s *Score) TotalSaved() int        { return s.totalSaved }
func (s *Score) TicketsPurchased() int  { return s.ticketsPurchased }
func (s *Score) Skips() int             { return s.skips }
func (s *Score) History() []Purchase    { return s.history }

func (s *Score) addPurchase(reward float64, saved, count int, seats []PurchasedSeat, at time.Time) {
	s.points += reward
	s.totalSaved += saved
	s.ticketsPurchased += count
	s.history = append(s.history, Purchase{Seats: seats, At: at})
}

func (s *Score) addSkip(penalty int) {
	s.points -= float64(penalty)
	s.skips++
}

// DiscountPercent is the per-seat deal quality used in the end-of-game
// summary: positive means the seat sold below base.
func DiscountPercent(basePrice, price int) float64 {
	if basePrice == 0 {
		return 0
	}
	return float64(basePrice-price) / float64(basePrice) * 100
}
