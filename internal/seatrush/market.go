package seatrush

import (
	"fmt"
	"time"
)

// Market owns the seat grid for one peer's session. In multiplayer only the
// host runs the periodic effects; the guest applies the host's deltas.
type Market struct {
	grid   GridConfig
	seats  []*Seat
	byID   map[string]*Seat
	prices PriceModel
	rng    Rand
}

// NewMarket generates the grid row-major with ids "A1", "A2", ...; roughly
// 70% of seats start available and every current price starts at base.
func NewMarket(grid GridConfig, rng Rand) *Market {
	m := &Market{
		grid:   grid,
		byID:   make(map[string]*Seat, grid.Total),
		prices: NewPriceModel(rng),
		rng:    rng,
	}

	rows := (grid.Total + grid.Columns - 1) / grid.Columns
	for row := 0; row < rows; row++ {
		for col := 0; col < grid.Columns; col++ {
			if row*grid.Columns+col >= grid.Total {
				break
			}
			seat := &Seat{
				ID:        fmt.Sprintf("%c%d", 'A'+row, col+1),
				Row:       row,
				Col:       col,
				BasePrice: m.prices.BasePrice(row, col, rows, grid.Columns),
				Available: rng.Float64() > 0.3,
			}
			seat.CurrentPrice = seat.BasePrice
			m.seats = append(m.seats, seat)
			m.byID[seat.ID] = seat
		}
	}
	return m
}

func (m *Market) Grid() GridConfig { return m.grid }

// Seats returns the grid in creation order.
func (m *Market) Seats() []*Seat { return m.seats }

// Seat looks a seat up by id; nil if unknown.
func (m *Market) Seat(id string) *Seat { return m.byID[id] }

// InitialAvailability snapshots every seat's availability. The host
// broadcasts this right after generation so the guest's freshly generated
// grid converges.
func (m *Market) InitialAvailability() []AvailabilityChange {
	changes := make([]AvailabilityChange, 0, len(m.seats))
	for _, seat := range m.seats {
		changes = append(changes, AvailabilityChange{SeatID: seat.ID, Available: seat.Available})
	}
	return changes
}

// eligible reports whether a periodic effect may touch the seat. Seats in
// either cart, purchased seats, and opponent-owned seats are protected.
func (m *Market) eligible(seat *Seat, protected func(id string) bool) bool {
	if seat.InCart || seat.Purchased || seat.OwnedByOpponent {
		return false
	}
	if protected != nil && protected(seat.ID) {
		return false
	}
	return true
}

// ToggleAvailability flips 2-4 randomly chosen eligible seats and returns
// exactly the seats it changed — the payload the peer layer forwards.
func (m *Market) ToggleAvailability(protected func(id string) bool) []AvailabilityChange {
	numChanges := m.rng.Intn(3) + 2
	var changed []AvailabilityChange

	for i := 0; i < numChanges; i++ {
		seat := m.seats[m.rng.Intn(len(m.seats))]
		if !m.eligible(seat, protected) {
			continue
		}
		seat.Available = !seat.Available
		changed = append(changed, AvailabilityChange{SeatID: seat.ID, Available: seat.Available})
	}
	return changed
}

// RefreshPrices recomputes the current price of every eligible available
// seat and returns the delta.
func (m *Market) RefreshPrices(saleActive, surgeActive bool, protected func(id string) bool) []PriceChange {
	var updates []PriceChange
	for _, seat := range m.seats {
		if !seat.Available || !m.eligible(seat, protected) {
			continue
		}
		seat.CurrentPrice = m.prices.LivePrice(seat.BasePrice, saleActive, surgeActive)
		updates = append(updates, PriceChange{SeatID: seat.ID, Price: seat.CurrentPrice})
	}
	return updates
}

// Purchase marks the given seats as bought by the local player. Irreversible.
func (m *Market) Purchase(ids []string) {
	for _, id := range ids {
		seat := m.byID[id]
		if seat == nil {
			continue
		}
		seat.Available = false
		seat.InCart = false
		seat.Purchased = true
	}
}

// ClaimByOpponent marks a seat as bought by the peer. Unknown ids are
// ignored; the claim is irreversible on receipt.
func (m *Market) ClaimByOpponent(id string, at time.Time) bool {
	seat := m.byID[id]
	if seat == nil {
		return false
	}
	seat.Available = false
	seat.Purchased = true
	seat.OwnedByOpponent = true
	seat.ClaimedAt = at
	return true
}

// ApplyAvailability applies a host delta on the guest's grid, ignoring
// unknown ids.
func (m *Market) ApplyAvailability(changes []AvailabilityChange) {
	for _, c := range changes {
		if seat := m.byID[c.SeatID]; seat != nil {
			seat.Available = c.Available
		}
	}
}

// ApplyPrices applies a host price delta on the guest's grid, ignoring
// unknown ids.
func (m *Market) ApplyPrices(updates []PriceChange) {
	for _, u := range updates {
		if seat := m.byID[u.SeatID]; seat != nil {
			seat.CurrentPrice = u.Price
		}
	}
}
