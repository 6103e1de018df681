package seatrush

import "testing"

func TestBasePriceRoundsToTwenty(t *testing.T) {
	rng := seededRand(1)
	m := NewPriceModel(rng)

	for row := 0; row < 8; row++ {
		for col := 0; col < 12; col++ {
			price := m.BasePrice(row, col, 8, 12)
			if price%20 != 0 {
				t.Errorf("BasePrice(%d,%d) = %d, not a multiple of 20", row, col, price)
			}
			if price < 40 || price > 340 {
				// [60,300] pre-draw; the ±10% draw and rounding widen the
				// envelope slightly but never this far.
				t.Errorf("BasePrice(%d,%d) = %d, outside plausible envelope", row, col, price)
			}
		}
	}
}

func TestBasePriceFrontCenterBeatsBackEdge(t *testing.T) {
	// Neutral draw on both sides isolates the positional blend.
	front := NewPriceModel(&scriptedRand{floats: []float64{0.5}}).BasePrice(0, 5, 8, 12)
	back := NewPriceModel(&scriptedRand{floats: []float64{0.5}}).BasePrice(7, 0, 8, 12)
	if front <= back {
		t.Errorf("front-center %d should out-price back-edge %d", front, back)
	}
}

func TestBasePriceSingleColumnGrid(t *testing.T) {
	m := NewPriceModel(&scriptedRand{floats: []float64{0.5}})
	// Column centrality degenerates with one column; must not divide by zero.
	if price := m.BasePrice(0, 0, 4, 1); price <= 0 {
		t.Fatalf("BasePrice on 1-column grid = %d", price)
	}
}

func TestLivePriceSaleOnlyDiscounts(t *testing.T) {
	rng := seededRand(7)
	m := NewPriceModel(rng)
	for i := 0; i < 200; i++ {
		if p := m.LivePrice(200, true, false); p > 200 {
			t.Fatalf("sale draw produced premium: %d", p)
		}
	}
}

func TestLivePriceSurgeOnlyPremiums(t *testing.T) {
	rng := seededRand(7)
	m := NewPriceModel(rng)
	for i := 0; i < 200; i++ {
		if p := m.LivePrice(200, false, true); p < 200 {
			t.Fatalf("surge draw produced discount: %d", p)
		}
	}
}

func TestLivePriceFloor(t *testing.T) {
	// Strongest possible discount on a cheap seat lands below 20 raw.
	m := NewPriceModel(&scriptedRand{floats: []float64{0.0}})
	if p := m.LivePrice(20, false, false); p != MinPrice {
		t.Fatalf("LivePrice = %d, want floor %d", p, MinPrice)
	}
}

func TestLivePriceBothEventsFallsBackToNormalRange(t *testing.T) {
	// Contract violation: both flags set uses the full [0.70, 1.30] range,
	// so a 0.0 draw is a 30% discount.
	m := NewPriceModel(&scriptedRand{floats: []float64{0.0}})
	if p := m.LivePrice(100, true, true); p != 70 {
		t.Fatalf("LivePrice(sale+surge) = %d, want 70", p)
	}
}

func TestLivePriceNeverBelowFloor(t *testing.T) {
	rng := seededRand(42)
	m := NewPriceModel(rng)
	for i := 0; i < 500; i++ {
		if p := m.LivePrice(60, false, false); p < MinPrice {
			t.Fatalf("price %d below floor", p)
		}
	}
}
