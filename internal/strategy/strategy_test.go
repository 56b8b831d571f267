package strategy

import (
	"math"
	"testing"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
)

func newTestStrategy(t *testing.T, cfg Config) *Strategy {
	t.Helper()
	if cfg.UnderlyingPrice == 0 {
		cfg.UnderlyingPrice = 100
	}
	if cfg.Simulations == 0 {
		cfg.Simulations = 100
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func addLeg(t *testing.T, s *Strategy, in LegInput) {
	t.Helper()
	if err := s.AddLeg(in); err != nil {
		t.Fatalf("AddLeg(%+v): %v", in, err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{UnderlyingPrice: 0}); !simerrors.Is(err, simerrors.ErrInvalidInput) {
		t.Errorf("zero underlying: err = %v, want ErrInvalidInput", err)
	}
	if _, err := New(Config{UnderlyingPrice: 100, Simulations: 1}); !simerrors.Is(err, simerrors.ErrInvalidInput) {
		t.Errorf("one simulation: err = %v, want ErrInvalidInput", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	s := newTestStrategy(t, Config{UnderlyingPrice: 100, Simulations: 100})
	if s.Symbol() != "XYZ" {
		t.Errorf("symbol = %q, want XYZ", s.Symbol())
	}
	if s.Title() != "Option Strategy" {
		t.Errorf("title = %q", s.Title())
	}
	if s.Rate() != 0.05 {
		t.Errorf("rate = %f, want 0.05", s.Rate())
	}
	if s.YearDays() != 365 {
		t.Errorf("yearDays = %f, want 365", s.YearDays())
	}
	if s.Volatility() != DefaultVolatility {
		t.Errorf("volatility = %f, want %f with no legs", s.Volatility(), DefaultVolatility)
	}
	if s.DaysToExpiration() != 1.0 {
		t.Errorf("dte = %f, want 1.0 with no option legs", s.DaysToExpiration())
	}
}

func TestAggregates(t *testing.T) {
	s := newTestStrategy(t, Config{})
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 100, Quantity: 1, Days: 30, Volatility: 0.2})
	addLeg(t, s, LegInput{Kind: models.Put, Strike: 100, Quantity: 1, Days: 20, Volatility: 0.3})

	legs := s.Legs()
	if len(legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(legs))
	}

	wantDelta := legs[0].Greeks.Delta + legs[1].Greeks.Delta
	if math.Abs(s.Delta()-wantDelta) > 1e-9 {
		t.Errorf("Delta = %f, want %f", s.Delta(), wantDelta)
	}
	wantTheta := legs[0].Greeks.Theta + legs[1].Greeks.Theta
	if math.Abs(s.Theta()-wantTheta) > 1e-9 {
		t.Errorf("Theta = %f, want %f", s.Theta(), wantTheta)
	}

	// Mean across option legs.
	if math.Abs(s.DaysToExpiration()-25) > 1e-9 {
		t.Errorf("DTE = %f, want 25", s.DaysToExpiration())
	}
	if math.Abs(s.Volatility()-0.25) > 1e-9 {
		t.Errorf("Volatility = %f, want 0.25", s.Volatility())
	}
}

func TestCost(t *testing.T) {
	s := newTestStrategy(t, Config{})
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 100, Quantity: 1, Days: 30, Volatility: 0.2, Mark: 3.0})
	if math.Abs(s.Cost()-300.0) > 1e-9 {
		t.Errorf("Cost = %f, want 300", s.Cost())
	}

	addLeg(t, s, LegInput{Kind: models.Stock, Strike: 100, Quantity: 10, Mark: 100})
	// Stock marks count as-is; 10 units at 100.
	if math.Abs(s.Cost()-1300.0) > 1e-9 {
		t.Errorf("Cost = %f, want 1300", s.Cost())
	}
}

func TestStockLegAggregation(t *testing.T) {
	s := newTestStrategy(t, Config{})
	addLeg(t, s, LegInput{Kind: models.Stock, Strike: 100, Quantity: 100, Mark: 100})

	legs := s.StockLegs()
	if len(legs) != 1 {
		t.Fatalf("stock legs = %d, want 1", len(legs))
	}
	if legs[0].Greeks.Delta != 1.0 {
		t.Errorf("stock leg delta = %f, want 1.0", legs[0].Greeks.Delta)
	}
	if len(s.OptionLegs()) != 0 {
		t.Error("stock leg must not appear in option legs")
	}
	// Stock legs contribute no theta, vega or gamma.
	if s.Theta() != 0 || s.Vega() != 0 || s.Gamma() != 0 {
		t.Error("stock-only strategy should carry no option sensitivities")
	}
}

func TestVolatilityOverride(t *testing.T) {
	s := newTestStrategy(t, Config{VolatilityOverride: 0.5})
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 100, Quantity: 1, Days: 30, Volatility: 0.2})
	if s.Volatility() != 0.5 {
		t.Errorf("Volatility = %f, want override 0.5", s.Volatility())
	}
}

func TestDefaultDaysFromExistingLegs(t *testing.T) {
	s := newTestStrategy(t, Config{})
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 105, Quantity: -1, Days: 30, Volatility: 0.2})
	// Second leg omits days and inherits the strategy average.
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 110, Quantity: 1, Volatility: 0.2})

	legs := s.Legs()
	if legs[1].Days != 30 {
		t.Errorf("inherited days = %f, want 30", legs[1].Days)
	}
}

func TestAddPnLPartitions(t *testing.T) {
	s := newTestStrategy(t, Config{})
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 100, Quantity: 1, Days: 30, Volatility: 0.2})

	if err := s.AddPnLPartitions(3); err != nil {
		t.Fatal(err)
	}
	if s.ProfileCount() != 3 {
		t.Fatalf("profiles = %d, want 3", s.ProfileCount())
	}

	payoff, err := s.Profile(0)
	if err != nil {
		t.Fatal(err)
	}
	if !payoff.Payoff || payoff.DaysToExpiration != 0 {
		t.Errorf("profile 0 should be the payoff profile, got dte=%f", payoff.DaysToExpiration)
	}

	// 30 days in 3 partitions of 10: forward profiles at 20 and 10 DTE.
	p1, _ := s.Profile(1)
	p2, _ := s.Profile(2)
	if p1.DaysToExpiration != 20 {
		t.Errorf("profile 1 dte = %f, want 20", p1.DaysToExpiration)
	}
	if p2.DaysToExpiration != 10 {
		t.Errorf("profile 2 dte = %f, want 10", p2.DaysToExpiration)
	}
}

func TestAddPnLAtDTE_OutOfRangeIgnored(t *testing.T) {
	s := newTestStrategy(t, Config{})
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 100, Quantity: 1, Days: 30, Volatility: 0.2})

	if err := s.AddPnLAtDTE(45); err != nil {
		t.Fatal(err)
	}
	if err := s.AddPnLAtDTE(-1); err != nil {
		t.Fatal(err)
	}
	if s.ProfileCount() != 1 {
		t.Errorf("profiles = %d, want only the payoff profile", s.ProfileCount())
	}

	if err := s.AddPnLAtDTE(15); err != nil {
		t.Fatal(err)
	}
	if s.ProfileCount() != 2 {
		t.Errorf("profiles = %d, want 2", s.ProfileCount())
	}
}

func TestProfile_InvalidIndex(t *testing.T) {
	s := newTestStrategy(t, Config{})
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 100, Quantity: 1, Days: 30, Volatility: 0.2})

	if _, err := s.Profile(5); !simerrors.Is(err, simerrors.ErrInvalidIndex) {
		t.Errorf("err = %v, want ErrInvalidIndex", err)
	}
	if _, err := s.Profile(-1); !simerrors.Is(err, simerrors.ErrInvalidIndex) {
		t.Errorf("err = %v, want ErrInvalidIndex", err)
	}
}

func TestProfile_LazyPayoff(t *testing.T) {
	s := newTestStrategy(t, Config{})
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 100, Quantity: 1, Days: 30, Volatility: 0.2})

	// No AddPnL call: index 0 materializes on demand.
	p, err := s.Profile(0)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Payoff {
		t.Error("lazily created profile should be the payoff profile")
	}
}

func TestAddLegRebuildsProfiles(t *testing.T) {
	s := newTestStrategy(t, Config{})
	addLeg(t, s, LegInput{Kind: models.Call, Strike: 105, Quantity: -1, Days: 30, Volatility: 0.2})
	if err := s.AddPnL(); err != nil {
		t.Fatal(err)
	}
	before, _ := s.ExpectedProfit(0)

	addLeg(t, s, LegInput{Kind: models.Call, Strike: 110, Quantity: 1, Days: 30, Volatility: 0.2})
	after, _ := s.ExpectedProfit(0)

	if before == after {
		t.Error("adding a leg should recompute existing profiles")
	}
	if s.ProfileCount() != 1 {
		t.Errorf("profiles = %d, want 1", s.ProfileCount())
	}
}
