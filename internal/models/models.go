// Package models defines shared value types for the option simulator.
package models

// Kind identifies what a leg holds.
type Kind string

const (
	// Call is a call option contract.
	Call Kind = "C"
	// Put is a put option contract.
	Put Kind = "P"
	// Stock is a position in the underlying itself.
	Stock Kind = "S"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == Call || k == Put || k == Stock
}

// IsOption reports whether k is an option contract (call or put).
func (k Kind) IsOption() bool {
	return k == Call || k == Put
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Call:
		return "call"
	case Put:
		return "put"
	case Stock:
		return "stock"
	default:
		return string(k)
	}
}

// KindFromString parses a kind from common spellings ("C", "call", "PUT", ...).
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "C", "c", "call", "CALL", "Call":
		return Call, true
	case "P", "p", "put", "PUT", "Put":
		return Put, true
	case "S", "s", "stock", "STOCK", "Stock":
		return Stock, true
	default:
		return "", false
	}
}

// Greeks holds option price sensitivities.
type Greeks struct {
	Delta float64
	Theta float64
	Vega  float64
	Gamma float64
}
