package chain

import (
	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
	"optionsim/internal/strategy"
)

// Builders assemble standard shapes from quoted contracts. All selection
// fields follow the zero-is-absent convention; each builder documents which
// combinations it accepts. Returned leg inputs carry the quotes' mid prices,
// deltas and volatilities, ready for strategy.AddLeg.

// Single selects one contract by delta magnitude and returns it as a leg.
func (e *Expiration) Single(quantity int, kind models.Kind, delta float64) ([]strategy.LegInput, error) {
	c, err := e.ByDelta(kind, delta)
	if err != nil {
		return nil, err
	}
	return []strategy.LegInput{legInput(c, quantity)}, nil
}

// StraddleSpec centers a straddle by strike or by strike percent.
type StraddleSpec struct {
	Quantity      int
	Strike        float64
	StrikePercent float64
}

// Straddle returns a call and a put at the same strike, both at the spec's
// quantity.
func (e *Expiration) Straddle(spec StraddleSpec) ([]strategy.LegInput, error) {
	var call, put *Contract
	var err error
	if spec.StrikePercent != 0 {
		call, err = e.ByStrikePercent(models.Call, spec.StrikePercent)
		if err != nil {
			return nil, err
		}
		put, err = e.ByStrikePercent(models.Put, spec.StrikePercent)
	} else if spec.Strike != 0 {
		call, err = e.ByStrike(models.Call, spec.Strike)
		if err != nil {
			return nil, err
		}
		put, err = e.ByStrike(models.Put, spec.Strike)
	} else {
		return nil, simerrors.NewValidationError("straddle", spec, "needs strike or strike percent")
	}
	if err != nil {
		return nil, err
	}
	return []strategy.LegInput{
		legInput(call, spec.Quantity),
		legInput(put, spec.Quantity),
	}, nil
}

// StrangleSpec centers a strangle by delta magnitude or by strike percent.
type StrangleSpec struct {
	Quantity      int
	Delta         float64
	StrikePercent float64
}

// Strangle returns an out-of-the-money call and put pair at the spec's
// quantity.
func (e *Expiration) Strangle(spec StrangleSpec) ([]strategy.LegInput, error) {
	var call, put *Contract
	var err error
	if spec.StrikePercent != 0 {
		call, err = e.ByStrikePercent(models.Call, spec.StrikePercent)
		if err != nil {
			return nil, err
		}
		put, err = e.ByStrikePercent(models.Put, -spec.StrikePercent)
	} else if spec.Delta != 0 {
		call, err = e.ByDelta(models.Call, spec.Delta)
		if err != nil {
			return nil, err
		}
		put, err = e.ByDelta(models.Put, -spec.Delta)
	} else {
		return nil, simerrors.NewValidationError("strangle", spec, "needs delta or strike percent")
	}
	if err != nil {
		return nil, err
	}
	return []strategy.LegInput{
		legInput(call, spec.Quantity),
		legInput(put, spec.Quantity),
	}, nil
}

// SpreadSpec selects a two-leg vertical. The inner leg is placed by Delta or
// StrikePercent; the outer leg by OTMDelta or Width (strike distance).
type SpreadSpec struct {
	Quantity      int
	Kind          models.Kind
	Delta         float64
	StrikePercent float64
	OTMDelta      float64
	Width         float64
}

// Spread returns the inner leg at the spec's quantity and the outer leg at
// its negation. When the two selections land on the same strike the outer
// leg steps one strike further out of the money.
func (e *Expiration) Spread(spec SpreadSpec) ([]strategy.LegInput, error) {
	if spec.Delta == 0 && spec.StrikePercent == 0 {
		return nil, simerrors.NewValidationError("spread", spec, "needs delta or strike percent")
	}
	if spec.OTMDelta == 0 && spec.Width == 0 {
		return nil, simerrors.NewValidationError("spread", spec, "needs otm delta or width")
	}

	var inner *Contract
	var err error
	if spec.StrikePercent != 0 {
		inner, err = e.ByStrikePercent(spec.Kind, spec.StrikePercent)
	} else {
		inner, err = e.ByDelta(spec.Kind, spec.Delta)
	}
	if err != nil {
		return nil, err
	}

	var outer *Contract
	if spec.Width != 0 {
		target := inner.StrikePrice + spec.Width
		if spec.Kind == models.Put {
			target = inner.StrikePrice - spec.Width
		}
		outer, err = e.ByStrike(spec.Kind, target)
	} else {
		outer, err = e.ByDelta(spec.Kind, spec.OTMDelta)
	}
	if err != nil {
		return nil, err
	}

	if outer.StrikePrice == inner.StrikePrice {
		outer, err = e.stepOut(outer)
		if err != nil {
			return nil, err
		}
	}
	return []strategy.LegInput{
		legInput(inner, spec.Quantity),
		legInput(outer, -spec.Quantity),
	}, nil
}

// CondorSpec selects a four-leg iron condor. The inner legs are placed by
// Delta or StrikePercent; the outer wings by OTMDelta or Width.
type CondorSpec struct {
	Quantity      int
	Delta         float64
	StrikePercent float64
	OTMDelta      float64
	Width         float64
}

// IronCondor returns the four legs: inner call and put at the spec's
// quantity, outer wings at its negation. Colliding strikes step the wing one
// strike further out.
func (e *Expiration) IronCondor(spec CondorSpec) ([]strategy.LegInput, error) {
	if spec.Delta == 0 && spec.StrikePercent == 0 {
		return nil, simerrors.NewValidationError("iron condor", spec, "needs delta or strike percent")
	}
	if spec.OTMDelta == 0 && spec.Width == 0 {
		return nil, simerrors.NewValidationError("iron condor", spec, "needs otm delta or width")
	}

	var innerCall, innerPut *Contract
	var err error
	if spec.StrikePercent != 0 {
		innerCall, err = e.ByStrikePercent(models.Call, spec.StrikePercent)
		if err != nil {
			return nil, err
		}
		innerPut, err = e.ByStrikePercent(models.Put, spec.StrikePercent)
	} else {
		innerCall, err = e.ByDelta(models.Call, spec.Delta)
		if err != nil {
			return nil, err
		}
		innerPut, err = e.ByDelta(models.Put, -spec.Delta)
	}
	if err != nil {
		return nil, err
	}

	var outerCall, outerPut *Contract
	if spec.Width != 0 {
		outerCall, err = e.ByStrike(models.Call, innerCall.StrikePrice+spec.Width)
		if err != nil {
			return nil, err
		}
		outerPut, err = e.ByStrike(models.Put, innerPut.StrikePrice-spec.Width)
	} else {
		outerCall, err = e.ByDelta(models.Call, spec.OTMDelta)
		if err != nil {
			return nil, err
		}
		outerPut, err = e.ByDelta(models.Put, -spec.OTMDelta)
	}
	if err != nil {
		return nil, err
	}

	if outerCall.StrikePrice == innerCall.StrikePrice {
		outerCall, err = e.stepOut(outerCall)
		if err != nil {
			return nil, err
		}
	}
	if outerPut.StrikePrice == innerPut.StrikePrice {
		outerPut, err = e.stepOut(outerPut)
		if err != nil {
			return nil, err
		}
	}

	return []strategy.LegInput{
		legInput(outerCall, -spec.Quantity),
		legInput(innerCall, spec.Quantity),
		legInput(innerPut, spec.Quantity),
		legInput(outerPut, -spec.Quantity),
	}, nil
}
