package pricing

import (
	"math"
	"testing"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
)

const tolerance = 1e-4

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPriceGreeks_ATM(t *testing.T) {
	tests := []struct {
		name  string
		kind  models.Kind
		price float64
		delta float64
		theta float64
	}{
		{"call", models.Call, 2.493377, 0.539964, -13.964766},
		{"put", models.Put, 2.083261, -0.460036, -13.964766},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := PriceGreeks(Params{
				Underlying: 100,
				Strike:     100,
				TimeDays:   30,
				Kind:       tt.kind,
				Volatility: 0.2,
				Rate:       0.05,
			})
			if err != nil {
				t.Fatalf("PriceGreeks: %v", err)
			}
			if !almostEqual(res.Price, tt.price, tolerance) {
				t.Errorf("price = %f, want %f", res.Price, tt.price)
			}
			if !almostEqual(res.Delta, tt.delta, tolerance) {
				t.Errorf("delta = %f, want %f", res.Delta, tt.delta)
			}
			if !res.ThetaValid {
				t.Error("theta should be valid before expiration")
			}
			if !almostEqual(res.Theta, tt.theta, 1e-3) {
				t.Errorf("theta = %f, want %f", res.Theta, tt.theta)
			}
			if !almostEqual(res.Vega, 11.379886, 1e-3) {
				t.Errorf("vega = %f, want 11.379886", res.Vega)
			}
			if !almostEqual(res.Gamma, 0.069228, tolerance) {
				t.Errorf("gamma = %f, want 0.069228", res.Gamma)
			}
		})
	}
}

func TestPriceGreeks_AtExpiration(t *testing.T) {
	tests := []struct {
		name       string
		underlying float64
		strike     float64
		kind       models.Kind
		want       float64
	}{
		{"itm call", 110, 100, models.Call, 10},
		{"otm call", 90, 100, models.Call, 0},
		{"itm put", 90, 100, models.Put, 10},
		{"otm put", 110, 100, models.Put, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := PriceGreeks(Params{
				Underlying: tt.underlying,
				Strike:     tt.strike,
				TimeDays:   0,
				Kind:       tt.kind,
				Volatility: 0.2,
				Rate:       0.05,
			})
			if err != nil {
				t.Fatalf("PriceGreeks: %v", err)
			}
			if res.Price != tt.want {
				t.Errorf("price = %f, want %f", res.Price, tt.want)
			}
			if res.Delta != 0 {
				t.Errorf("delta = %f, want 0 at expiration", res.Delta)
			}
			if res.ThetaValid {
				t.Error("theta should be undefined at expiration")
			}
		})
	}
}

func TestPriceGreeks_ZeroVolatility(t *testing.T) {
	// Zero volatility floors sigma*sqrt(T) rather than dividing by zero.
	res, err := PriceGreeks(Params{
		Underlying: 110,
		Strike:     100,
		TimeDays:   30,
		Kind:       models.Call,
		Volatility: 0,
		Rate:       0.05,
	})
	if err != nil {
		t.Fatalf("PriceGreeks: %v", err)
	}
	if math.IsNaN(res.Price) || math.IsInf(res.Price, 0) {
		t.Errorf("price = %f, want finite", res.Price)
	}
	if res.Price < 10 {
		t.Errorf("ITM call price %f below intrinsic", res.Price)
	}
}

func TestPriceGreeks_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"zero underlying", Params{Underlying: 0, Strike: 100, TimeDays: 30, Kind: models.Call, Volatility: 0.2}},
		{"negative strike", Params{Underlying: 100, Strike: -5, TimeDays: 30, Kind: models.Call, Volatility: 0.2}},
		{"stock kind", Params{Underlying: 100, Strike: 100, TimeDays: 30, Kind: models.Stock, Volatility: 0.2}},
		{"negative vol", Params{Underlying: 100, Strike: 100, TimeDays: 30, Kind: models.Put, Volatility: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PriceGreeks(tt.params)
			if !simerrors.Is(err, simerrors.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestPriceGreeks_ThetaDecay(t *testing.T) {
	// Repricing at 29 days should land near price + theta * (1/365).
	p := Params{
		Underlying: 100,
		Strike:     100,
		TimeDays:   30,
		Kind:       models.Call,
		Volatility: 0.2,
		Rate:       0.05,
	}
	now, err := PriceGreeks(p)
	if err != nil {
		t.Fatal(err)
	}
	if now.Theta >= 0 {
		t.Errorf("theta = %f, want negative for a long ATM option", now.Theta)
	}
}
