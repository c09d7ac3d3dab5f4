package models

import (
	"fmt"
	"math"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/multierr"
)

// SkewParameters shapes one Orc Wing volatility curve.
type SkewParameters struct {
	Vc  float64 `mapstructure:"vc" json:"vc"`   // volatility at the central skew point
	Sc  float64 `mapstructure:"sc" json:"sc"`   // slope at the central skew point
	Pc  float64 `mapstructure:"pc" json:"pc"`   // put wing curvature
	Cc  float64 `mapstructure:"cc" json:"cc"`   // call wing curvature
	Dc  float64 `mapstructure:"dc" json:"dc"`   // down cutoff, in (-1, 0)
	Uc  float64 `mapstructure:"uc" json:"uc"`   // up cutoff, in (0, 1)
	Dsm float64 `mapstructure:"dsm" json:"dsm"` // down smoothing range relative to the put wing
	Usm float64 `mapstructure:"usm" json:"usm"` // up smoothing range relative to the call wing
}

// NewSkewParameters validates the parameter domain before returning.
func NewSkewParameters(vc, sc, pc, cc, dc, uc, dsm, usm float64) (SkewParameters, error) {
	p := SkewParameters{Vc: vc, Sc: sc, Pc: pc, Cc: cc, Dc: dc, Uc: uc, Dsm: dsm, Usm: usm}
	if err := p.Validate(); err != nil {
		return SkewParameters{}, err
	}
	return p, nil
}

// Validate checks every parameter is finite and inside its domain, and that
// the breakpoints are ordered.
func (p SkewParameters) Validate() error {
	for _, v := range []NamedValue{
		{"vc", p.Vc}, {"sc", p.Sc}, {"pc", p.Pc}, {"cc", p.Cc},
		{"dc", p.Dc}, {"uc", p.Uc}, {"dsm", p.Dsm}, {"usm", p.Usm},
	} {
		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidSkewParameters, v.Name)
		}
	}

	switch {
	case !(p.Uc > 0 && p.Uc < 1):
		return fmt.Errorf("%w: uc=%v must be in (0, 1)", ErrInvalidSkewParameters, p.Uc)
	case !(p.Dc > -1 && p.Dc < 0):
		return fmt.Errorf("%w: dc=%v must be in (-1, 0)", ErrInvalidSkewParameters, p.Dc)
	case !(p.Dsm > 0):
		return fmt.Errorf("%w: dsm=%v must be positive", ErrInvalidSkewParameters, p.Dsm)
	case !(p.Usm > 0):
		return fmt.Errorf("%w: usm=%v must be positive", ErrInvalidSkewParameters, p.Usm)
	case !(p.Vc > 1e-6 && p.Vc < 4):
		return fmt.Errorf("%w: vc=%v must be in (1e-6, 4)", ErrInvalidSkewParameters, p.Vc)
	case !(p.Sc > -1e6 && p.Sc < 1e6):
		return fmt.Errorf("%w: sc=%v must be in (-1e6, 1e6)", ErrInvalidSkewParameters, p.Sc)
	}

	if !(p.downFlatEdge() <= p.Dc && p.Dc <= 0 && 0 <= p.Uc && p.Uc <= p.upFlatEdge()) {
		return fmt.Errorf("%w: breakpoints out of order: %v <= %v <= 0 <= %v <= %v",
			ErrInvalidSkewParameters, p.downFlatEdge(), p.Dc, p.Uc, p.upFlatEdge())
	}
	return nil
}

func (p SkewParameters) downFlatEdge() float64 { return p.Dc * (1 + p.Dsm) }
func (p SkewParameters) upFlatEdge() float64   { return p.Uc * (1 + p.Usm) }

// Breakpoints returns dc*(1+dsm), dc, 0, uc and uc*(1+usm) in ascending order.
func (p SkewParameters) Breakpoints() []float64 {
	return []float64{p.downFlatEdge(), p.Dc, 0, p.Uc, p.upFlatEdge()}
}

// Region names the piece of the curve that owns a moneyness point.
type Region uint8

const (
	NoRegion Region = iota
	PutWing
	CallWing
	DownSmoothing
	DownFlat
	UpSmoothing
	UpFlat
)

func (r Region) String() string {
	switch r {
	case PutWing:
		return "put wing"
	case CallWing:
		return "call wing"
	case DownSmoothing:
		return "down smoothing"
	case DownFlat:
		return "down flat"
	case UpSmoothing:
		return "up smoothing"
	case UpFlat:
		return "up flat"
	default:
		return "none"
	}
}

type regionRule struct {
	region   Region
	contains func(p SkewParameters, x float64) bool
}

// Checked in order; the first match owns x. The comparison operators decide
// which side of a breakpoint owns the breakpoint itself.
var regionRules = []regionRule{
	{PutWing, func(p SkewParameters, x float64) bool { return p.Dc < x && x <= 0 }},
	{CallWing, func(p SkewParameters, x float64) bool { return 0 < x && x <= p.Uc }},
	{DownSmoothing, func(p SkewParameters, x float64) bool { return p.downFlatEdge() < x && x <= p.Dc }},
	{DownFlat, func(p SkewParameters, x float64) bool { return x < p.downFlatEdge() }},
	{UpSmoothing, func(p SkewParameters, x float64) bool { return p.Uc < x && x <= p.upFlatEdge() }},
	{UpFlat, func(p SkewParameters, x float64) bool { return p.upFlatEdge() < x }},
}

// Classify returns the region owning x, or NoRegion.
func (p SkewParameters) Classify(x float64) Region {
	for _, rule := range regionRules {
		if rule.contains(p, x) {
			return rule.region
		}
	}
	return NoRegion
}

// Volatility evaluates the curve at a single moneyness point. It does not
// revalidate p; Evaluate does.
func (p SkewParameters) Volatility(x float64) (float64, error) {
	vc, sc, pc, cc := p.Vc, p.Sc, p.Pc, p.Cc
	dc, uc, dsm, usm := p.Dc, p.Uc, p.Dsm, p.Usm

	switch p.Classify(x) {
	case PutWing:
		return vc + sc*x + pc*x*x, nil
	case CallWing:
		return vc + sc*x + cc*x*x, nil
	case DownSmoothing:
		return vc - (1+1/dsm)*pc*dc*dc - sc*dc/(2*dsm) +
			(1+1/dsm)*(2*pc*dc+sc)*x -
			(pc/dsm+sc/(2*dc*dsm))*x*x, nil
	case DownFlat:
		return vc + dc*(2+dsm)*(sc/2) + (1+dsm)*pc*dc*dc, nil
	case UpSmoothing:
		return vc - (1+1/usm)*cc*uc*uc - sc*uc/(2*usm) +
			(1+1/usm)*(2*cc*uc+sc)*x -
			(cc/usm+sc/(2*uc*usm))*x*x, nil
	case UpFlat:
		// mirror of DownFlat; this is the value UpSmoothing reaches at uc*(1+usm)
		return vc + uc*(2+usm)*(sc/2) + (1+usm)*cc*uc*uc, nil
	}
	return math.NaN(), &OutOfDomainError{X: x}
}

type pointResult struct {
	vol float64
	err error
}

// Evaluate maps every moneyness point to a volatility, preserving order.
// Invalid parameters fail before any point is evaluated. A point that matches
// no region is NaN in the output and its error is part of the returned error;
// the remaining points are still evaluated.
func (p SkewParameters) Evaluate(moneyness []float64) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	results := iter.Map(moneyness, func(x *float64) pointResult {
		v, err := p.Volatility(*x)
		return pointResult{vol: v, err: err}
	})

	vols := make([]float64, len(results))
	var errs error
	for i, r := range results {
		vols[i] = r.vol
		errs = multierr.Append(errs, r.err)
	}
	return vols, errs
}

// EvaluateCurve is Evaluate with the arguments in data-first order.
func EvaluateCurve(moneyness []float64, params SkewParameters) ([]float64, error) {
	return params.Evaluate(moneyness)
}
