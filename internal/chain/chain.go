// Package chain loads option chain quote snapshots from CSV and selects
// contracts to assemble strategy legs. Column names follow the TastyTrade
// export format.
package chain

import (
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
)

// Contract is one option quote row. StrikePercent is derived after load as
// the signed distance from the strike to the underlying price.
type Contract struct {
	UnderlyingSymbol string  `csv:"underlying_symbol"`
	Symbol           string  `csv:"symbol"`
	OptionType       string  `csv:"option_type"`
	UnderlyingPrice  float64 `csv:"underlying_price"`
	StrikePrice      float64 `csv:"strike_price"`
	ExpirationDate   string  `csv:"expiration_date"`
	DaysToExpiration int     `csv:"days_to_expiration"`
	BidPrice         float64 `csv:"bid_price"`
	AskPrice         float64 `csv:"ask_price"`
	Mark             float64 `csv:"mark"`
	Delta            float64 `csv:"delta"`
	Gamma            float64 `csv:"gamma"`
	Theta            float64 `csv:"theta"`
	Vega             float64 `csv:"vega"`
	Rho              float64 `csv:"rho"`
	Volatility       float64 `csv:"volatility"`
	OpenInterest     int     `csv:"open_interest"`
	BidSize          int     `csv:"bid_size"`
	AskSize          int     `csv:"ask_size"`
	PrevDayVolume    int     `csv:"prev_day_volume"`

	StrikePercent float64 `csv:"-"`
}

// Kind maps the contract's option type onto the models enum.
func (c *Contract) Kind() models.Kind {
	return models.Kind(c.OptionType)
}

// MidPrice is the bid/ask midpoint, falling back to the mark column when a
// side is missing.
func (c *Contract) MidPrice() float64 {
	if c.BidPrice > 0 && c.AskPrice > 0 {
		return (c.BidPrice + c.AskPrice) / 2
	}
	return c.Mark
}

// Chain is an ordered collection of contract quotes, typically one market
// snapshot across symbols and expirations.
type Chain []*Contract

// Load reads a chain from a CSV file on disk.
func Load(path string) (Chain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerrors.Wrapf(err, "open chain file %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a chain from CSV data. Duplicate listings are pruned: SPX
// (keeping SPXW), SQQQ1 (keeping SQQQ) and UVXY2 rows are dropped.
func Read(r io.Reader) (Chain, error) {
	var rows []*Contract
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, simerrors.Wrap(err, "parse chain csv")
	}

	chain := make(Chain, 0, len(rows))
	for _, row := range rows {
		if row.UnderlyingSymbol == "" {
			continue
		}
		if strings.HasPrefix(row.Symbol, "SPX ") ||
			strings.HasPrefix(row.Symbol, "SQQQ1 ") ||
			strings.HasPrefix(row.Symbol, "UVXY2 ") {
			continue
		}
		if row.UnderlyingPrice > 0 {
			row.StrikePercent = (row.StrikePrice - row.UnderlyingPrice) / row.UnderlyingPrice
		}
		chain = append(chain, row)
	}
	if len(chain) == 0 {
		return nil, simerrors.ErrChainEmpty
	}
	return chain, nil
}

// PurgeOptions bound the liquidity filter applied by Purge.
type PurgeOptions struct {
	MinOpenInterest int
	DeltaMin        float64
	DeltaMax        float64
	MinPrice        float64
}

// DefaultPurgeOptions drop illiquid wings and penny underlyings.
func DefaultPurgeOptions() PurgeOptions {
	return PurgeOptions{MinOpenInterest: 10, DeltaMin: 0.03, DeltaMax: 0.97, MinPrice: 10}
}

// Purge returns the contracts that pass the liquidity filter: open interest
// above the threshold, absolute delta strictly inside (DeltaMin, DeltaMax)
// and underlying price above the minimum.
func (ch Chain) Purge(opts PurgeOptions) Chain {
	out := make(Chain, 0, len(ch))
	for _, c := range ch {
		d := math.Abs(c.Delta)
		if c.OpenInterest > opts.MinOpenInterest &&
			d > opts.DeltaMin && d < opts.DeltaMax &&
			c.UnderlyingPrice > opts.MinPrice {
			out = append(out, c)
		}
	}
	return out
}

// Symbols returns the unique underlying symbols, in first-seen order.
func (ch Chain) Symbols() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range ch {
		if !seen[c.UnderlyingSymbol] {
			seen[c.UnderlyingSymbol] = true
			out = append(out, c.UnderlyingSymbol)
		}
	}
	return out
}

// ForSymbol returns the sub-chain quoting the given underlying.
func (ch Chain) ForSymbol(symbol string) Chain {
	var out Chain
	for _, c := range ch {
		if c.UnderlyingSymbol == symbol {
			out = append(out, c)
		}
	}
	return out
}

// ExpireDays returns the unique days-to-expiration values, ascending.
func (ch Chain) ExpireDays() []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range ch {
		if !seen[c.DaysToExpiration] {
			seen[c.DaysToExpiration] = true
			out = append(out, c.DaysToExpiration)
		}
	}
	sort.Ints(out)
	return out
}

// UnderlyingPrice returns the quoted underlying price, taken from the first
// contract. Zero for an empty chain.
func (ch Chain) UnderlyingPrice() float64 {
	if len(ch) == 0 {
		return 0
	}
	return ch[0].UnderlyingPrice
}

// ForDTE returns the expiration view closest to the requested days to
// expiration, or exactly that expiration when exact is set.
func (ch Chain) ForDTE(days int, exact bool) (*Expiration, error) {
	best := -1
	bestDiff := math.MaxFloat64
	for _, c := range ch {
		diff := math.Abs(float64(c.DaysToExpiration - days))
		if diff < bestDiff {
			bestDiff = diff
			best = c.DaysToExpiration
		}
	}
	if best < 0 || (exact && best != days) {
		return nil, simerrors.ErrContractNotFound
	}

	var sub Chain
	for _, c := range ch {
		if c.DaysToExpiration == best {
			sub = append(sub, c)
		}
	}
	return newExpiration(sub), nil
}

// ForExpiration returns the view for one expiration date string.
func (ch Chain) ForExpiration(date string) (*Expiration, error) {
	var sub Chain
	for _, c := range ch {
		if c.ExpirationDate == date {
			sub = append(sub, c)
		}
	}
	if len(sub) == 0 {
		return nil, simerrors.ErrContractNotFound
	}
	return newExpiration(sub), nil
}
