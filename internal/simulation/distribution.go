package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidDistribution is returned for parameters a distribution cannot draw from.
var ErrInvalidDistribution = errors.New("invalid distribution")

type Kind int

const (
	KindConstant Kind = iota
	KindNormal
	KindUniform
	KindPoisson
	KindExponential
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindNormal:
		return "normal"
	case KindUniform:
		return "uniform"
	case KindPoisson:
		return "poisson"
	case KindExponential:
		return "exponential"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rand is the random source the simulators draw from. Distributions read
// its Uint64 stream; Float64 serves the plain probability checks. *rand.Rand
// from math/rand/v2 satisfies it.
type Rand interface {
	rand.Source
	Float64() float64
}

// Distribution is a distribution family plus its parameters. It holds no
// random state.
//
//	Constant:    A = value
//	Normal:      A = mean, B = standard deviation
//	Uniform:     A = low, B = high
//	Poisson:     A = lambda
//	Exponential: A = scale (mean)
type Distribution struct {
	Kind Kind
	A    float64
	B    float64
}

func Constant(v float64) Distribution { return Distribution{Kind: KindConstant, A: v} }

func Normal(mean, std float64) Distribution { return Distribution{Kind: KindNormal, A: mean, B: std} }

func Uniform(low, high float64) Distribution {
	return Distribution{Kind: KindUniform, A: low, B: high}
}

func Poisson(lambda float64) Distribution { return Distribution{Kind: KindPoisson, A: lambda} }

func Exponential(scale float64) Distribution {
	return Distribution{Kind: KindExponential, A: scale}
}

func (d Distribution) Validate() error {
	if !finite(d.A) || !finite(d.B) {
		return fmt.Errorf("%w: %s parameters must be finite", ErrInvalidDistribution, d.Kind)
	}
	switch d.Kind {
	case KindConstant:
	case KindNormal:
		if d.B < 0 {
			return fmt.Errorf("%w: normal std %.4f < 0", ErrInvalidDistribution, d.B)
		}
	case KindUniform:
		if d.B < d.A {
			return fmt.Errorf("%w: uniform high %.4f < low %.4f", ErrInvalidDistribution, d.B, d.A)
		}
	case KindPoisson:
		if d.A < 0 {
			return fmt.Errorf("%w: poisson lambda %.4f < 0", ErrInvalidDistribution, d.A)
		}
	case KindExponential:
		if d.A < 0 {
			return fmt.Errorf("%w: exponential scale %.4f < 0", ErrInvalidDistribution, d.A)
		}
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidDistribution, d.Kind)
	}
	return nil
}

// Sample draws one value from d. Every call is an independent draw; the
// result is not clamped, call sites apply their own floor.
func Sample(d Distribution, r Rand) (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	switch d.Kind {
	case KindNormal:
		return distuv.Normal{Mu: d.A, Sigma: d.B, Src: r}.Rand(), nil
	case KindUniform:
		return distuv.Uniform{Min: d.A, Max: d.B, Src: r}.Rand(), nil
	case KindPoisson:
		if d.A == 0 {
			return 0, nil
		}
		return distuv.Poisson{Lambda: d.A, Src: r}.Rand(), nil
	case KindExponential:
		// distuv is parameterised by rate, the catalog by mean
		if d.A == 0 {
			return 0, nil
		}
		return distuv.Exponential{Rate: 1 / d.A, Src: r}.Rand(), nil
	default:
		return d.A, nil
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
