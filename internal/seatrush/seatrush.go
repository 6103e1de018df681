// Package seatrush implements the core of the ticket-rush minigame: the
// dynamically priced seat market, cart validation, checkout arbitration,
// the score ledger, and host/guest peer synchronization.
// It has zero external dependencies — everything here is pure Go.
package seatrush

import "time"

// Seat is one sellable unit on the grid. Row and Col record the position in
// the generation grid and are used for pricing only; adjacency is judged
// against the current display layout (see DisplayPositions).
type Seat struct {
	ID              string
	Row             int
	Col             int
	BasePrice       int
	CurrentPrice    int
	Available       bool
	InCart          bool
	Purchased       bool
	OwnedByOpponent bool
	ClaimedAt       time.Time // when the opponent claimed it; drives the transient highlight
}

// CartItem snapshots a seat's price at add time. Later market fluctuation
// does not retroactively change a queued item's price.
type CartItem struct {
	SeatID    string `json:"seatId"`
	Price     int    `json:"price"`
	BasePrice int    `json:"basePrice"`
}

// GridConfig describes the seat grid layout negotiated for a game.
type GridConfig struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
	Total   int `json:"total"`
}

// SmallerOf picks the more restrictive of two grid configurations by total
// seat count, so both peers render the same size grid.
func (g GridConfig) SmallerOf(other GridConfig) GridConfig {
	if other.Total == 0 {
		return g
	}
	if g.Total <= other.Total {
		return g
	}
	return other
}

// Rand is the random source injected into every component that draws.
// *math/rand.Rand satisfies it; tests use scripted fakes.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// AvailabilityChange is one entry of the delta a market availability tick
// produces; the same shape carries the host's seed availability to the guest.
type AvailabilityChange struct {
	SeatID    string `json:"seatId"`
	Available bool   `json:"isAvailable"`
}

// PriceChange is one entry of the delta a market price refresh produces.
type PriceChange struct {
	SeatID string `json:"seatId"`
	Price  int    `json:"currentPrice"`
}
