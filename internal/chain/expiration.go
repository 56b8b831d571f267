package chain

import (
	"math"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
	"optionsim/internal/strategy"
)

// Expiration is the view of a single symbol's quotes at one expiration. The
// leg builders select contracts from it by delta, strike or strike percent
// and emit strategy leg inputs.
type Expiration struct {
	Contracts Chain
	Calls     Chain
	Puts      Chain
}

func newExpiration(contracts Chain) *Expiration {
	e := &Expiration{Contracts: contracts}
	for _, c := range contracts {
		switch c.Kind() {
		case models.Call:
			e.Calls = append(e.Calls, c)
		case models.Put:
			e.Puts = append(e.Puts, c)
		}
	}
	return e
}

// UnderlyingSymbol returns the quoted underlying symbol.
func (e *Expiration) UnderlyingSymbol() string {
	if len(e.Contracts) == 0 {
		return ""
	}
	return e.Contracts[0].UnderlyingSymbol
}

// UnderlyingPrice returns the quoted underlying price.
func (e *Expiration) UnderlyingPrice() float64 {
	return e.Contracts.UnderlyingPrice()
}

// DaysToExpiration returns the view's days to expiration.
func (e *Expiration) DaysToExpiration() int {
	if len(e.Contracts) == 0 {
		return 0
	}
	return e.Contracts[0].DaysToExpiration
}

// Strikes returns the unique call strikes, ascending by quote order.
func (e *Expiration) Strikes() []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, c := range e.Calls {
		if !seen[c.StrikePrice] {
			seen[c.StrikePrice] = true
			out = append(out, c.StrikePrice)
		}
	}
	return out
}

// AverageIV averages the quoted volatility over strikes within 12% of the
// underlying price. Zero when no strikes qualify.
func (e *Expiration) AverageIV() float64 {
	var total float64
	var n int
	for _, c := range e.Contracts {
		if math.Abs(c.StrikePercent) < 0.12 {
			total += c.Volatility
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// VolumeRatio is the put/call volume skew in -1..1: negative is put skewed,
// positive is call skewed, 0 is balanced.
func (e *Expiration) VolumeRatio() float64 {
	var tput, tcall float64
	for _, c := range e.Puts {
		tput += float64(c.PrevDayVolume)
	}
	for _, c := range e.Calls {
		tcall += float64(c.PrevDayVolume)
	}
	if tcall == 0 {
		return 1
	}
	if tput < tcall {
		return 1 - tput/tcall
	}
	return -(1 - tcall/tput)
}

// VolatilityRatio is the put/call volatility skew in -1..1, averaged over
// contracts with absolute delta in (0.1, 0.4). Zero when either side is
// empty.
func (e *Expiration) VolatilityRatio() float64 {
	var pv, cv float64
	var np, nc int
	for _, c := range e.Puts {
		if c.Delta > -0.4 && c.Delta < -0.1 {
			pv += c.Volatility
			np++
		}
	}
	for _, c := range e.Calls {
		if c.Delta < 0.4 && c.Delta > 0.1 {
			cv += c.Volatility
			nc++
		}
	}
	if np == 0 || nc == 0 {
		return 0
	}
	pv /= float64(np)
	cv /= float64(nc)
	if pv < cv {
		return 1 - pv/cv
	}
	return -(1 - cv/pv)
}

// direction constrains closest-value contract searches.
type direction int

const (
	absolute direction = iota
	lessThan
	greaterThan
)

// closest returns the contract from the slice whose field value (extracted
// by key) lies nearest the target, subject to the direction constraint.
func closest(contracts Chain, key func(*Contract) float64, target float64, dir direction) *Contract {
	var best *Contract
	bestDiff := math.MaxFloat64
	for _, c := range contracts {
		v := key(c)
		if dir == lessThan && v > target {
			continue
		}
		if dir == greaterThan && v < target {
			continue
		}
		diff := math.Abs(v - target)
		if diff < bestDiff {
			bestDiff = diff
			best = c
		}
	}
	return best
}

func byDelta(c *Contract) float64         { return c.Delta }
func byStrike(c *Contract) float64        { return c.StrikePrice }
func byStrikePercent(c *Contract) float64 { return c.StrikePercent }

func (e *Expiration) side(kind models.Kind) Chain {
	if kind == models.Call {
		return e.Calls
	}
	return e.Puts
}

// normalizeDelta flips the sign so a caller can pass delta as a magnitude
// regardless of option type: calls carry positive delta, puts negative.
func normalizeDelta(kind models.Kind, delta float64) float64 {
	if kind == models.Call && delta > 0 {
		return delta
	}
	if kind == models.Put && delta < 0 {
		return delta
	}
	return -delta
}

// BySymbol finds one contract by its full option symbol.
func (e *Expiration) BySymbol(symbol string) (*Contract, error) {
	for _, c := range e.Contracts {
		if c.Symbol == symbol {
			return c, nil
		}
	}
	return nil, simerrors.ErrContractNotFound
}

// ByDelta finds the contract of the given kind nearest the delta, treating
// the delta's sign per normalizeDelta.
func (e *Expiration) ByDelta(kind models.Kind, delta float64) (*Contract, error) {
	c := closest(e.side(kind), byDelta, normalizeDelta(kind, delta), absolute)
	if c == nil {
		return nil, simerrors.ErrContractNotFound
	}
	return c, nil
}

// ByStrike finds the contract of the given kind nearest the strike.
func (e *Expiration) ByStrike(kind models.Kind, strike float64) (*Contract, error) {
	c := closest(e.side(kind), byStrike, strike, absolute)
	if c == nil {
		return nil, simerrors.ErrContractNotFound
	}
	return c, nil
}

// ByStrikePercent finds the contract of the given kind nearest the signed
// strike distance from the underlying.
func (e *Expiration) ByStrikePercent(kind models.Kind, pct float64) (*Contract, error) {
	c := closest(e.side(kind), byStrikePercent, pct, absolute)
	if c == nil {
		return nil, simerrors.ErrContractNotFound
	}
	return c, nil
}

// stepOut finds the next contract one strike further out of the money than
// the given one, used when inner and outer selections collide on a strike.
func (e *Expiration) stepOut(from *Contract) (*Contract, error) {
	kind := from.Kind()
	target := from.StrikePrice
	dir := greaterThan
	if kind == models.Put {
		dir = lessThan
		target -= 0.05
	} else {
		target += 0.05
	}
	c := closest(e.side(kind), byStrike, target, dir)
	if c == nil {
		return nil, simerrors.ErrContractNotFound
	}
	return c, nil
}

// legInput converts a quoted contract into a strategy leg input, carrying the
// quote's mid price, volatility and delta.
func legInput(c *Contract, quantity int) strategy.LegInput {
	return strategy.LegInput{
		Kind:       c.Kind(),
		Strike:     c.StrikePrice,
		Quantity:   quantity,
		Mark:       c.MidPrice(),
		Volatility: c.Volatility,
		Delta:      c.Delta,
		Days:       float64(c.DaysToExpiration),
		Symbol:     c.Symbol,
	}
}
