package pricing

import (
	"math"
	"testing"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
)

func TestImpliedVolatility_Roundtrip(t *testing.T) {
	// Price the option at a known volatility, then recover it.
	target, err := PriceGreeks(Params{
		Underlying: 100,
		Strike:     105,
		TimeDays:   45,
		Kind:       models.Call,
		Volatility: 0.35,
		Rate:       0.05,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(target.Price, 3.126696, tolerance) {
		t.Fatalf("setup price = %f, want 3.126696", target.Price)
	}

	vol, res, err := ImpliedVolatility(IVParams{
		Underlying:  100,
		Strike:      105,
		TimeDays:    45,
		TargetPrice: target.Price,
		Kind:        models.Call,
		Rate:        0.05,
	})
	if err != nil {
		t.Fatalf("ImpliedVolatility: %v", err)
	}
	if !almostEqual(vol, 0.35, 1e-4) {
		t.Errorf("vol = %f, want 0.35", vol)
	}
	if math.Abs(res.Price-target.Price) > DefaultIVTolerance {
		t.Errorf("solution price = %f, want %f", res.Price, target.Price)
	}
	if res.Delta <= 0 || res.Delta >= 1 {
		t.Errorf("delta = %f, want in (0, 1)", res.Delta)
	}
}

func TestImpliedVolatility_PutRoundtrip(t *testing.T) {
	target, err := PriceGreeks(Params{
		Underlying: 50,
		Strike:     48,
		TimeDays:   20,
		Kind:       models.Put,
		Volatility: 0.4,
		Rate:       0.05,
	})
	if err != nil {
		t.Fatal(err)
	}

	vol, _, err := ImpliedVolatility(IVParams{
		Underlying:  50,
		Strike:      48,
		TimeDays:    20,
		TargetPrice: target.Price,
		Kind:        models.Put,
		Rate:        0.05,
	})
	if err != nil {
		t.Fatalf("ImpliedVolatility: %v", err)
	}
	if !almostEqual(vol, 0.4, 1e-4) {
		t.Errorf("vol = %f, want 0.4", vol)
	}
}

func TestImpliedVolatility_NoSolution(t *testing.T) {
	// A deep OTM call priced near zero drives vega to zero before the
	// tolerance check can pass.
	_, _, err := ImpliedVolatility(IVParams{
		Underlying:  100,
		Strike:      150,
		TimeDays:    30,
		TargetPrice: 0.01,
		Kind:        models.Call,
		Rate:        0.05,
	})
	if !simerrors.Is(err, simerrors.ErrNoSolution) {
		t.Fatalf("err = %v, want ErrNoSolution", err)
	}

	var convErr *simerrors.ConvergenceError
	if !simerrors.As(err, &convErr) {
		t.Fatalf("err = %v, want *ConvergenceError", err)
	}
	if convErr.Reason == "" {
		t.Error("convergence error should carry a reason")
	}
}

func TestImpliedVolatility_InvalidInput(t *testing.T) {
	_, _, err := ImpliedVolatility(IVParams{
		Underlying:  -1,
		Strike:      100,
		TimeDays:    30,
		TargetPrice: 2,
		Kind:        models.Call,
	})
	if !simerrors.Is(err, simerrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
