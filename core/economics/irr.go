package economics

import (
	"errors"
	"math"
)

// ErrNoConvergence is returned when the IRR root search exhausts its
// iteration budget without bracketing a root.
var ErrNoConvergence = errors.New("irr did not converge")

const (
	irrMaxIterations = 100
	irrTolerance     = 1e-6
)

func npv(rate float64, flows []float64) float64 {
	total := 0.0
	for t, cf := range flows {
		total += cf / math.Pow(1+rate, float64(t))
	}
	return total
}

func npvDerivative(rate float64, flows []float64) float64 {
	total := 0.0
	for t, cf := range flows {
		if t > 0 {
			total -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
		}
	}
	return total
}

// SolveIRR finds the internal rate of return of a cashflow series where
// flows[0] is the (negative) initial investment. Newton iteration from 0.1
// runs first, clamped to [-0.99, 10]; when it stalls a bisection over
// [-0.99, 2] is tried before giving up with ErrNoConvergence.
func SolveIRR(flows []float64) (float64, error) {
	if len(flows) < 2 {
		return 0, ErrNoConvergence
	}

	r := 0.1
	for i := 0; i < irrMaxIterations; i++ {
		v := npv(r, flows)
		if math.Abs(v) < irrTolerance {
			return r, nil
		}
		d := npvDerivative(r, flows)
		if math.Abs(d) < 1e-12 {
			break
		}
		next := r - v/d
		if next < -0.99 {
			next = -0.99
		} else if next > 10 {
			next = 10
		}
		if math.Abs(next-r) < irrTolerance {
			return next, nil
		}
		r = next
	}
	return irrBisection(flows)
}

func irrBisection(flows []float64) (float64, error) {
	low, high := -0.99, 2.0
	vLow, vHigh := npv(low, flows), npv(high, flows)
	if vLow*vHigh > 0 {
		return 0, ErrNoConvergence
	}
	for i := 0; i < irrMaxIterations; i++ {
		mid := (low + high) / 2
		vMid := npv(mid, flows)
		if math.Abs(vMid) < irrTolerance {
			return mid, nil
		}
		if vMid*vLow < 0 {
			high, vHigh = mid, vMid
		} else {
			low, vLow = mid, vMid
		}
		if high-low < irrTolerance {
			return (low + high) / 2, nil
		}
	}
	return 0, ErrNoConvergence
}
