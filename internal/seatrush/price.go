package seatrush

import "math"

const (
	// MinPrice is the floor every live price respects.
	MinPrice = 20

	basePriceMin = 60
	basePriceMax = 300

	// rowWeight/colWeight blend proximity to the stage with row centrality.
	rowWeight = 0.7
	colWeight = 0.3
)

// PriceModel computes seat prices. It is stateless apart from the injected
// random source.
type PriceModel struct {
	rng Rand
}

func NewPriceModel(rng Rand) PriceModel {
	return PriceModel{rng: rng}
}

// BasePrice prices a seat from its position in the generation grid: front
// rows and central columns cost more. The blended factor maps onto
// [60, 300], gets a uniform ±10% draw, and rounds to the nearest $20.
func (m PriceModel) BasePrice(row, col, rows, cols int) int {
	rowFactor := 1 - float64(row)/float64(rows)

	centerCol := float64(cols-1) / 2
	colFactor := 1.0
	if centerCol > 0 {
		colFactor = 1 - math.Abs(float64(col)-centerCol)/centerCol
	}

	combined := rowFactor*rowWeight + colFactor*colWeight
	base := basePriceMin + combined*float64(basePriceMax-basePriceMin)

	randomFactor := 0.9 + m.rng.Float64()*0.2

	return int(math.Round(base*randomFactor/20)) * 20
}

// LivePrice recomputes a seat's current price from its base price. During a
// sale every draw is a discount ([0.70, 1.00]); during a surge every draw is
// a premium ([1.00, 1.30]); otherwise the draw covers [0.70, 1.30]. Sale and
// surge are never scheduled together; both flags set is an input-contract
// violation and falls back to the normal range. The result never drops
// below MinPrice.
func (m PriceModel) LivePrice(basePrice int, saleActive, surgeActive bool) int {
	var fluctuation float64
	switch {
	case saleActive && !surgeActive:
		fluctuation = -m.rng.Float64() * 0.3
	case surgeActive && !saleActive:
		fluctuation = m.rng.Float64() * 0.3
	default:
		fluctuation = (m.rng.Float64() - 0.5) * 0.6
	}

	price := int(math.Floor(float64(basePrice) * (1 + fluctuation)))
	if price < MinPrice {
		price = MinPrice
	}
	return price
}
