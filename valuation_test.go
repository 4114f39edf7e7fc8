package cryptofolio

import (
	"reflect"
	"testing"
)

// registryWith builds a registry pricing the given coins in BRL.
func registryWith(t *testing.T, prices map[string]float64) Registry {
	t.Helper()
	seed := DefaultRegistry()
	coins := make([]Coin, 0, len(prices))
	for c := range seed.Coins() {
		if p, ok := prices[c.ID]; ok {
			c.Price = BRL(p)
			coins = append(coins, c)
		}
	}
	if len(coins) != len(prices) {
		t.Fatalf("registryWith: unknown coin in %v", prices)
	}
	return NewRegistry(coins...)
}

func TestValuate_EmptyLedger(t *testing.T) {
	positions := Valuate(NewLedger(), DefaultRegistry())
	if len(positions) != 0 {
		t.Fatalf("Valuate(empty) returned %d positions, want 0", len(positions))
	}
	if total := TotalValue(positions); !total.IsZero() {
		t.Errorf("TotalValue(empty) = %s, want 0", total)
	}
}

func TestValuate_WeightedAverageLaw(t *testing.T) {
	// For BUY-only sequences, totalAmount = Σamount and
	// averageBuyPrice = Σ(amount×price+fee) / Σamount.
	testCases := []struct {
		name string
		buys [][3]float64 // amount, price, fee
		wantAmount,
		wantInvested,
		wantAvg float64
	}{
		{
			name:         "single buy",
			buys:         [][3]float64{{1.0, 100000, 10}},
			wantAmount:   1.0,
			wantInvested: 100010,
			wantAvg:      100010,
		},
		{
			name:         "two buys same price",
			buys:         [][3]float64{{1, 100, 0}, {3, 100, 0}},
			wantAmount:   4,
			wantInvested: 400,
			wantAvg:      100,
		},
		{
			name: "average shifts by quantity not price",
			// 1 @ 100 plus 3 @ 200: avg is 175, not 150.
			buys:         [][3]float64{{1, 100, 0}, {3, 200, 0}},
			wantAmount:   4,
			wantInvested: 700,
			wantAvg:      175,
		},
		{
			name:         "fees enter the cost basis",
			buys:         [][3]float64{{2, 50, 5}, {2, 50, 5}},
			wantAmount:   4,
			wantInvested: 210,
			wantAvg:      52.5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := NewLedger()
			for _, buy := range tc.buys {
				mustBuy(t, ledger, "bitcoin", buy[0], buy[1], buy[2])
			}

			positions := Valuate(ledger, DefaultRegistry())
			if len(positions) != 1 {
				t.Fatalf("got %d positions, want 1", len(positions))
			}
			p := positions[0]
			if !p.TotalAmount.Equal(Q(tc.wantAmount)) {
				t.Errorf("TotalAmount = %s, want %v", p.TotalAmount, tc.wantAmount)
			}
			if !p.TotalInvested.Equal(BRL(tc.wantInvested)) {
				t.Errorf("TotalInvested = %s, want %v", p.TotalInvested, tc.wantInvested)
			}
			if !p.AverageBuyPrice.Equal(BRL(tc.wantAvg)) {
				t.Errorf("AverageBuyPrice = %s, want %v", p.AverageBuyPrice, tc.wantAvg)
			}
		})
	}
}

func TestValuate_FullSellClosesPosition(t *testing.T) {
	ledger := NewLedger()
	mustBuy(t, ledger, "bitcoin", 1.0, 100000, 10)
	mustSell(t, ledger, "bitcoin", 1.0, 120000)

	positions := Valuate(ledger, DefaultRegistry())
	if len(positions) != 0 {
		t.Fatalf("fully sold coin still visible: %+v", positions)
	}
}

func TestValuate_PartialSellKeepsAveragePrice(t *testing.T) {
	// The proportional cost-basis reduction uses the pre-sale quantity as
	// denominator, so the remaining position's average price is unchanged.
	ledger := NewLedger()
	mustBuy(t, ledger, "bitcoin", 1.0, 100000, 10)
	mustSell(t, ledger, "bitcoin", 0.4, 120000)

	reg := registryWith(t, map[string]float64{"bitcoin": 120000})
	positions := Valuate(ledger, reg)
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	p := positions[0]

	if !p.TotalAmount.Equal(Q(0.6)) {
		t.Errorf("TotalAmount = %s, want 0.6", p.TotalAmount)
	}
	// invested reduced by 100010 × (0.4/1.0) = 40004
	if !p.TotalInvested.Equal(BRL(60006)) {
		t.Errorf("TotalInvested = %s, want 60006", p.TotalInvested)
	}
	if !p.AverageBuyPrice.Equal(BRL(100010)) {
		t.Errorf("AverageBuyPrice = %s, want unchanged 100010", p.AverageBuyPrice)
	}
}

func TestValuate_ProfitAgainstLivePrice(t *testing.T) {
	ledger := NewLedger()
	mustBuy(t, ledger, "bitcoin", 1.0, 100000, 10)

	reg := registryWith(t, map[string]float64{"bitcoin": 120000})
	positions := Valuate(ledger, reg)
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	p := positions[0]

	if !p.CurrentValue.Equal(BRL(120000)) {
		t.Errorf("CurrentValue = %s, want 120000", p.CurrentValue)
	}
	if !p.Profit.Equal(BRL(19990)) {
		t.Errorf("Profit = %s, want 19990", p.Profit)
	}
	if !p.ProfitPercent.Equal(Percent(19.988)) {
		t.Errorf("ProfitPercent = %s, want ≈19.99%%", p.ProfitPercent)
	}
}

func TestValuate_Idempotent(t *testing.T) {
	ledger := NewLedger()
	mustBuy(t, ledger, "bitcoin", 1.5, 100000, 25)
	mustBuy(t, ledger, "ethereum", 10, 18000, 5)
	mustSell(t, ledger, "bitcoin", 0.5, 110000)
	reg := DefaultRegistry()

	first := Valuate(ledger, reg)
	second := Valuate(ledger, reg)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Valuate is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestValuate_UnknownCoinIsFlagged(t *testing.T) {
	// A transaction referencing a coin missing from the registry values the
	// position at 0 and flags it instead of aborting the recomputation.
	ledger := NewLedger()
	mustBuy(t, ledger, "luna-classic", 1000, 0.01, 0)
	mustBuy(t, ledger, "bitcoin", 1, 100000, 0)

	positions := Valuate(ledger, registryWith(t, map[string]float64{"bitcoin": 100000}))
	if len(positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(positions))
	}

	var unpriced *Position
	for i := range positions {
		if positions[i].CoinID == "luna-classic" {
			unpriced = &positions[i]
		}
	}
	if unpriced == nil {
		t.Fatal("unknown coin dropped from the valuation")
	}
	if !unpriced.Unpriced {
		t.Error("position on unknown coin not flagged")
	}
	if !unpriced.CurrentValue.IsZero() {
		t.Errorf("CurrentValue = %s, want 0", unpriced.CurrentValue)
	}
	if !unpriced.Profit.Equal(BRL(-10)) {
		t.Errorf("Profit = %s, want -10", unpriced.Profit)
	}
}

func TestValuate_SortsByCurrentValue(t *testing.T) {
	ledger := NewLedger()
	// Smallest position first: sorting, not insertion order, must decide.
	mustBuy(t, ledger, "cardano", 100, 2.5, 0)
	mustBuy(t, ledger, "bitcoin", 1, 100000, 0)
	mustBuy(t, ledger, "ethereum", 2, 18000, 0)

	positions := Valuate(ledger, registryWith(t, map[string]float64{
		"bitcoin": 100000, "ethereum": 18000, "cardano": 2.5,
	}))

	var got []string
	for _, p := range positions {
		got = append(got, p.CoinID)
	}
	want := []string{"bitcoin", "ethereum", "cardano"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("positions order = %v, want %v", got, want)
	}
}

func TestValuate_Totals(t *testing.T) {
	ledger := NewLedger()
	mustBuy(t, ledger, "bitcoin", 1, 100000, 10)
	mustBuy(t, ledger, "ethereum", 2, 18000, 0)

	positions := Valuate(ledger, registryWith(t, map[string]float64{
		"bitcoin": 120000, "ethereum": 18000,
	}))

	if got := TotalInvested(positions); !got.Equal(BRL(136010)) {
		t.Errorf("TotalInvested = %s, want 136010", got)
	}
	if got := TotalValue(positions); !got.Equal(BRL(156000)) {
		t.Errorf("TotalValue = %s, want 156000", got)
	}
	if got := TotalProfit(positions); !got.Equal(BRL(19990)) {
		t.Errorf("TotalProfit = %s, want 19990", got)
	}
}

func TestValuate_DustFiltering(t *testing.T) {
	// A residual quantity within 1e-6 of zero is treated as fully closed.
	ledger := NewLedger()
	mustBuy(t, ledger, "bitcoin", 1.0000005, 100000, 0)
	mustSell(t, ledger, "bitcoin", 1.0, 100000)

	positions := Valuate(ledger, DefaultRegistry())
	if len(positions) != 0 {
		t.Fatalf("dust position still visible: %+v", positions)
	}
}
