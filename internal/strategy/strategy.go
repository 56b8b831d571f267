package strategy

import (
	"math"

	"golang.org/x/exp/rand"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
	"optionsim/internal/pricing"
)

// Simulation defaults.
const (
	// DefaultStdDevRange is how many standard deviations the simulated
	// price range spans on each side of the underlying.
	DefaultStdDevRange = 3.0
	// DefaultSimulations is the number of price grid points (and Monte
	// Carlo samples).
	DefaultSimulations = 1000
	// DefaultVolatility is used when no leg or override supplies one.
	DefaultVolatility = 0.25
)

// Config holds the scalars a strategy is constructed with. Zero values fall
// back to the documented defaults.
type Config struct {
	// UnderlyingPrice is required and must be positive.
	UnderlyingPrice float64
	Symbol          string
	Title           string

	// RiskFreeRate defaults to 0.05, YearDays to 365.
	RiskFreeRate float64
	YearDays     float64

	// StdDevRange defaults to 3, Simulations to 1000.
	StdDevRange float64
	Simulations int

	// MonteCarlo switches expected-profit estimation from the closed-form
	// probability-weighted sum to Monte Carlo sampling. Seed fixes the
	// sample sequence; 0 means a source-chosen seed.
	MonteCarlo bool
	Seed       uint64

	// VolatilityOverride, when nonzero, replaces the per-leg volatility
	// average in every aggregate calculation.
	VolatilityOverride float64
}

// Strategy owns an ordered collection of legs and the PnL profiles computed
// from them. Aggregate quantities are recomputed on read from the immutable
// legs, never stored separately.
type Strategy struct {
	underlyingPrice float64
	symbol          string
	title           string
	rate            float64
	yearDays        float64
	stdDevRange     float64
	simulations     int
	sigmaOverride   float64

	legs     []Leg
	profiles []*Profile

	estimator profitEstimator
}

// New creates an empty strategy for the given configuration.
func New(cfg Config) (*Strategy, error) {
	if cfg.UnderlyingPrice <= 0 {
		return nil, simerrors.NewValidationError("underlying_price", cfg.UnderlyingPrice, "must be > 0")
	}
	if cfg.Simulations == 1 || cfg.Simulations < 0 {
		return nil, simerrors.NewValidationError("simulations", cfg.Simulations, "must be >= 2")
	}

	s := &Strategy{
		underlyingPrice: cfg.UnderlyingPrice,
		symbol:          cfg.Symbol,
		title:           cfg.Title,
		rate:            cfg.RiskFreeRate,
		yearDays:        cfg.YearDays,
		stdDevRange:     cfg.StdDevRange,
		simulations:     cfg.Simulations,
		sigmaOverride:   cfg.VolatilityOverride,
	}
	if s.symbol == "" {
		s.symbol = "XYZ"
	}
	if s.title == "" {
		s.title = "Option Strategy"
	}
	if s.rate == 0 {
		s.rate = pricing.DefaultRate
	}
	if s.yearDays == 0 {
		s.yearDays = pricing.DefaultYearDays
	}
	if s.stdDevRange == 0 {
		s.stdDevRange = DefaultStdDevRange
	}
	if s.simulations == 0 {
		s.simulations = DefaultSimulations
	}

	if cfg.MonteCarlo {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		s.estimator = &monteCarloEstimator{src: rand.NewSource(seed)}
	} else {
		s.estimator = closedFormEstimator{}
	}
	return s, nil
}

// UnderlyingPrice returns the underlying price the strategy was built with.
func (s *Strategy) UnderlyingPrice() float64 { return s.underlyingPrice }

// Symbol returns the underlying symbol.
func (s *Strategy) Symbol() string { return s.symbol }

// Title returns the strategy title.
func (s *Strategy) Title() string { return s.title }

// Rate returns the risk-free rate.
func (s *Strategy) Rate() float64 { return s.rate }

// YearDays returns the day-count convention.
func (s *Strategy) YearDays() float64 { return s.yearDays }

// Simulations returns the configured simulation point count.
func (s *Strategy) Simulations() int { return s.simulations }

// AddLeg constructs a leg from the input, filling anything the caller
// omitted from the strategy defaults and the pricing kernel, and appends it.
// Existing PnL profiles are recomputed against the new leg set.
func (s *Strategy) AddLeg(in LegInput) error {
	leg, err := newLeg(in, legDefaults{
		underlying: s.underlyingPrice,
		volatility: s.Volatility(),
		days:       s.defaultDays(),
		rate:       s.rate,
		yearDays:   s.yearDays,
	})
	if err != nil {
		return err
	}
	s.legs = append(s.legs, leg)
	return s.rebuildProfiles()
}

// defaultDays is the default expiration for a new leg: the mean of existing
// option legs, or none when the strategy has no option legs yet.
func (s *Strategy) defaultDays() float64 {
	if len(s.OptionLegs()) == 0 {
		return 0
	}
	return s.DaysToExpiration()
}

// Legs returns a copy of all legs in insertion order.
func (s *Strategy) Legs() []Leg {
	out := make([]Leg, len(s.legs))
	copy(out, s.legs)
	return out
}

// OptionLegs returns the option legs, excluding stock.
func (s *Strategy) OptionLegs() []Leg {
	var out []Leg
	for _, leg := range s.legs {
		if leg.Kind.IsOption() {
			out = append(out, leg)
		}
	}
	return out
}

// StockLegs returns the stock legs only.
func (s *Strategy) StockLegs() []Leg {
	var out []Leg
	for _, leg := range s.legs {
		if leg.Kind == models.Stock {
			out = append(out, leg)
		}
	}
	return out
}

// Delta is the aggregate delta across every leg, weighted by quantity.
func (s *Strategy) Delta() float64 {
	var total float64
	for _, leg := range s.legs {
		total += leg.Greeks.Delta * float64(leg.Quantity)
	}
	return total
}

// Theta is the aggregate theta across option legs, weighted by quantity.
// Stock legs carry no decay.
func (s *Strategy) Theta() float64 {
	var total float64
	for _, leg := range s.OptionLegs() {
		total += leg.Greeks.Theta * float64(leg.Quantity)
	}
	return total
}

// Vega is the aggregate vega across option legs, weighted by quantity.
func (s *Strategy) Vega() float64 {
	var total float64
	for _, leg := range s.OptionLegs() {
		total += leg.Greeks.Vega * float64(leg.Quantity)
	}
	return total
}

// Gamma is the aggregate gamma across option legs, weighted by quantity.
func (s *Strategy) Gamma() float64 {
	var total float64
	for _, leg := range s.OptionLegs() {
		total += leg.Greeks.Gamma * float64(leg.Quantity)
	}
	return total
}

// Cost is the net outlay for the position: option marks are per-share prices
// on 100-share contracts, stock marks are taken as-is.
func (s *Strategy) Cost() float64 {
	var options, stock float64
	for _, leg := range s.OptionLegs() {
		options += leg.Mark * float64(leg.Quantity)
	}
	for _, leg := range s.StockLegs() {
		stock += leg.Mark * float64(leg.Quantity)
	}
	return options*100 + stock
}

// DaysToExpiration is the mean days-to-expiration across option legs, or 1.0
// when the strategy holds none.
func (s *Strategy) DaysToExpiration() float64 {
	optionLegs := s.OptionLegs()
	if len(optionLegs) == 0 {
		return 1.0
	}
	var total float64
	for _, leg := range optionLegs {
		total += leg.Days
	}
	return total / float64(len(optionLegs))
}

// Volatility is the mean volatility across option legs, unless an override
// was configured. Falls back to 0.25 when nothing else is available.
func (s *Strategy) Volatility() float64 {
	if s.sigmaOverride != 0 {
		return s.sigmaOverride
	}
	optionLegs := s.OptionLegs()
	if len(optionLegs) == 0 {
		return DefaultVolatility
	}
	var total float64
	for _, leg := range optionLegs {
		total += leg.Volatility
	}
	return total / float64(len(optionLegs))
}

// ExpectedMoveAt returns the expected move of the underlying over the
// strategy's averaged time to expiration.
func (s *Strategy) ExpectedMoveAt() float64 {
	return pricing.ExpectedMove(s.underlyingPrice, s.Volatility(), s.DaysToExpiration())
}

// ensurePayoff materializes the full-expiration payoff profile at index 0.
func (s *Strategy) ensurePayoff() error {
	if len(s.profiles) > 0 {
		return nil
	}
	p, err := newProfile(s, profileSpec{payoff: true})
	if err != nil {
		return err
	}
	s.profiles = append(s.profiles, p)
	return nil
}

// rebuildProfiles recomputes every existing profile against the current legs.
func (s *Strategy) rebuildProfiles() error {
	for i, p := range s.profiles {
		rebuilt, err := newProfile(s, p.spec)
		if err != nil {
			return err
		}
		s.profiles[i] = rebuilt
	}
	return nil
}

// AddPnL ensures the payoff profile exists (at index 0).
func (s *Strategy) AddPnL() error {
	return s.ensurePayoff()
}

// AddPnLPartitions appends partitions-1 forward profiles evenly spaced
// between now and full expiration, after ensuring the payoff profile exists.
// A partition count below 2 only ensures the payoff profile.
func (s *Strategy) AddPnLPartitions(partitions int) error {
	if err := s.ensurePayoff(); err != nil {
		return err
	}
	if partitions <= 1 {
		return nil
	}
	totalDays := s.DaysToExpiration()
	partLen := math.Round(totalDays / float64(partitions))
	for i := 1; i < partitions; i++ {
		days := math.Trunc(partLen * float64(i))
		p, err := newProfile(s, profileSpec{dte: totalDays - days})
		if err != nil {
			return err
		}
		s.profiles = append(s.profiles, p)
	}
	return nil
}

// AddPnLDaysForward appends one forward profile the given number of days
// from now.
func (s *Strategy) AddPnLDaysForward(daysForward float64) error {
	if err := s.ensurePayoff(); err != nil {
		return err
	}
	if daysForward <= 0 {
		return nil
	}
	p, err := newProfile(s, profileSpec{dte: s.DaysToExpiration() - daysForward})
	if err != nil {
		return err
	}
	s.profiles = append(s.profiles, p)
	return nil
}

// AddPnLAtDTE appends one forward profile at the given days-to-expiration.
// Values outside [0, total days] are ignored.
func (s *Strategy) AddPnLAtDTE(dte float64) error {
	if err := s.ensurePayoff(); err != nil {
		return err
	}
	if dte < 0 || dte > s.DaysToExpiration() {
		return nil
	}
	p, err := newProfile(s, profileSpec{dte: dte})
	if err != nil {
		return err
	}
	s.profiles = append(s.profiles, p)
	return nil
}

// ProfileCount returns how many PnL profiles have been computed.
func (s *Strategy) ProfileCount() int { return len(s.profiles) }

// Profile returns the PnL profile at the given index. Index 0 is the payoff
// profile and is materialized lazily on first access.
func (s *Strategy) Profile(idx int) (*Profile, error) {
	if len(s.profiles) == 0 {
		if err := s.ensurePayoff(); err != nil {
			return nil, err
		}
	}
	if idx < 0 || idx >= len(s.profiles) {
		return nil, simerrors.Wrapf(simerrors.ErrInvalidIndex, "profile %d of %d", idx, len(s.profiles))
	}
	return s.profiles[idx], nil
}

// POP returns the probability of profit for the profile at idx.
func (s *Strategy) POP(idx int) (float64, error) {
	p, err := s.Profile(idx)
	if err != nil {
		return 0, err
	}
	return p.POP, nil
}

// ExpectedProfit returns the expected profit for the profile at idx.
func (s *Strategy) ExpectedProfit(idx int) (float64, error) {
	p, err := s.Profile(idx)
	if err != nil {
		return 0, err
	}
	return p.ExpectedProfit, nil
}

// StdDev returns the standard deviation of the underlying for the profile at
// idx. ExpectedMove is its alias in trading terms.
func (s *Strategy) StdDev(idx int) (float64, error) {
	p, err := s.Profile(idx)
	if err != nil {
		return 0, err
	}
	return p.StdDev, nil
}

// ExpectedMove is an alias for StdDev.
func (s *Strategy) ExpectedMove(idx int) (float64, error) {
	return s.StdDev(idx)
}

// PriceGrid returns the simulated price range for the profile at idx.
func (s *Strategy) PriceGrid(idx int) ([]float64, error) {
	p, err := s.Profile(idx)
	if err != nil {
		return nil, err
	}
	return p.Prices, nil
}

// PnLValues returns the PnL per grid point for the profile at idx.
func (s *Strategy) PnLValues(idx int) ([]float64, error) {
	p, err := s.Profile(idx)
	if err != nil {
		return nil, err
	}
	return p.PnL, nil
}

// WeightedPnLValues returns the probability-weighted PnL per grid point for
// the profile at idx.
func (s *Strategy) WeightedPnLValues(idx int) ([]float64, error) {
	p, err := s.Profile(idx)
	if err != nil {
		return nil, err
	}
	return p.WeightedPnL, nil
}
