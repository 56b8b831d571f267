package strategy

import (
	"math"
	"testing"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
)

func testDefaults() legDefaults {
	return legDefaults{
		underlying: 100,
		volatility: 0.25,
		days:       0,
		rate:       0.05,
		yearDays:   365,
	}
}

func TestNewLeg_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   LegInput
	}{
		{"zero quantity", LegInput{Kind: models.Call, Strike: 100, Quantity: 0, Days: 30}},
		{"bad kind", LegInput{Kind: "X", Strike: 100, Quantity: 1, Days: 30}},
		{"option without strike", LegInput{Kind: models.Put, Quantity: 1, Days: 30}},
		{"negative days", LegInput{Kind: models.Call, Strike: 100, Quantity: 1, Days: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLeg(tt.in, testDefaults())
			if !simerrors.Is(err, simerrors.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNewLeg_MissingExpiration(t *testing.T) {
	_, err := newLeg(LegInput{Kind: models.Call, Strike: 100, Quantity: 1}, testDefaults())
	if !simerrors.Is(err, simerrors.ErrMissingExpiration) {
		t.Fatalf("err = %v, want ErrMissingExpiration", err)
	}
}

func TestNewLeg_StockLeg(t *testing.T) {
	leg, err := newLeg(LegInput{Kind: models.Stock, Strike: 98.5, Quantity: 100}, testDefaults())
	if err != nil {
		t.Fatal(err)
	}
	if leg.Greeks.Delta != 1.0 {
		t.Errorf("delta = %f, want 1.0 for 100 shares", leg.Greeks.Delta)
	}
	if leg.Greeks.Theta != 0 || leg.Greeks.Vega != 0 || leg.Greeks.Gamma != 0 {
		t.Error("stock legs carry no option sensitivities")
	}
	// Stock legs without an expiration get a nominal one day.
	if leg.Days != 1 {
		t.Errorf("days = %f, want 1", leg.Days)
	}
}

func TestNewLeg_MarkFromVolatility(t *testing.T) {
	leg, err := newLeg(LegInput{
		Kind:       models.Call,
		Strike:     100,
		Quantity:   1,
		Days:       30,
		Volatility: 0.2,
	}, testDefaults())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(leg.Mark-2.493377) > 1e-4 {
		t.Errorf("mark = %f, want 2.493377", leg.Mark)
	}
	if math.Abs(leg.Greeks.Delta-0.539964) > 1e-4 {
		t.Errorf("delta = %f, want 0.539964", leg.Greeks.Delta)
	}
}

func TestNewLeg_VolatilityFromMark(t *testing.T) {
	// Supplying only the mark solves implied volatility.
	leg, err := newLeg(LegInput{
		Kind:     models.Call,
		Strike:   100,
		Quantity: 1,
		Days:     30,
		Mark:     2.493377,
	}, testDefaults())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(leg.Volatility-0.2) > 1e-4 {
		t.Errorf("volatility = %f, want 0.2", leg.Volatility)
	}
}

func TestNewLeg_DefaultVolatilityWhenBothAbsent(t *testing.T) {
	leg, err := newLeg(LegInput{
		Kind:     models.Put,
		Strike:   100,
		Quantity: 1,
		Days:     30,
	}, testDefaults())
	if err != nil {
		t.Fatal(err)
	}
	if leg.Volatility != 0.25 {
		t.Errorf("volatility = %f, want strategy default 0.25", leg.Volatility)
	}
	if leg.Mark <= 0 {
		t.Errorf("mark = %f, want derived price", leg.Mark)
	}
}

func TestNewLeg_ShortSideInvertsDecay(t *testing.T) {
	long, err := newLeg(LegInput{
		Kind: models.Call, Strike: 100, Quantity: 1, Days: 30, Volatility: 0.2,
	}, testDefaults())
	if err != nil {
		t.Fatal(err)
	}
	short, err := newLeg(LegInput{
		Kind: models.Call, Strike: 100, Quantity: -1, Days: 30, Volatility: 0.2,
	}, testDefaults())
	if err != nil {
		t.Fatal(err)
	}

	if short.Greeks.Theta != -long.Greeks.Theta {
		t.Errorf("short theta = %f, want %f", short.Greeks.Theta, -long.Greeks.Theta)
	}
	if short.Greeks.Vega != -long.Greeks.Vega {
		t.Errorf("short vega = %f, want %f", short.Greeks.Vega, -long.Greeks.Vega)
	}
	// Delta and gamma keep the derived sign; quantity weighting happens at
	// the aggregate level.
	if short.Greeks.Delta != long.Greeks.Delta {
		t.Errorf("short delta = %f, want %f", short.Greeks.Delta, long.Greeks.Delta)
	}
}

func TestNewLeg_CallerDeltaWins(t *testing.T) {
	leg, err := newLeg(LegInput{
		Kind: models.Call, Strike: 100, Quantity: 1, Days: 30, Volatility: 0.2,
		Delta: 0.61,
	}, testDefaults())
	if err != nil {
		t.Fatal(err)
	}
	if leg.Greeks.Delta != 0.61 {
		t.Errorf("delta = %f, want caller-supplied 0.61", leg.Greeks.Delta)
	}
}

func TestLegPayoff(t *testing.T) {
	tests := []struct {
		name  string
		leg   Leg
		price float64
		want  float64
	}{
		{"long call itm", Leg{Kind: models.Call, Strike: 100, Quantity: 1, Mark: 2.5}, 110, 7.5},
		{"long call otm", Leg{Kind: models.Call, Strike: 100, Quantity: 1, Mark: 2.5}, 90, -2.5},
		{"short call itm", Leg{Kind: models.Call, Strike: 100, Quantity: -1, Mark: 2.5}, 110, -7.5},
		{"long put itm", Leg{Kind: models.Put, Strike: 100, Quantity: 1, Mark: 1.8}, 90, 8.2},
		{"short put otm", Leg{Kind: models.Put, Strike: 100, Quantity: -1, Mark: 1.8}, 110, 1.8},
		{"stock gain", Leg{Kind: models.Stock, Strike: 95, Quantity: 100, Mark: 95}, 105, 10},
		{"stock loss", Leg{Kind: models.Stock, Strike: 95, Quantity: 100, Mark: 95}, 90, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.leg.Payoff(tt.price)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Payoff(%f) = %f, want %f", tt.price, got, tt.want)
			}
		})
	}
}
