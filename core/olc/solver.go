// Package olc computes the Occupant Load Criterion from a reconstructed
// vehicle velocity profile, following the Euro NCAP two-point definition.
package olc

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/crashlab/crashpulse/core/dsp"
	"github.com/crashlab/crashpulse/schema"
)

// Targets are the relative-displacement thresholds of the two-phase occupant
// model: S1M is the free-flight distance before restraint loading begins and
// S2M the total relative displacement when occupant and vehicle velocities
// re-converge.
type Targets struct {
	S1M float64
	S2M float64
}

// DefaultTargets returns the standardized 65 mm / 300 mm thresholds.
func DefaultTargets() Targets {
	return Targets{S1M: 0.065, S2M: 0.300}
}

// Solver iteration bounds. The nonlinear solve must never block a batch
// worker; past maxIter the sentinel result is returned.
const (
	maxIter = 50
	tol     = 1e-10
	jacEps  = 1e-7
)

// ErrTooShort is returned when the velocity profile has too few samples for
// a meaningful solve.
var ErrTooShort = errors.New("olc: velocity profile too short")

// Calculate solves for the OLC given sample times (s), vehicle velocity
// (m/s) and the impact speed v0 (m/s).
//
// Phase 1: the virtual occupant flies freely at v0; t1 is the first time its
// displacement relative to the vehicle reaches S1M. Phase 2: the occupant
// decelerates at a constant rate a from t1; t2 and a are found so that the
// occupant velocity equals the vehicle velocity at t2 and the total relative
// displacement equals S2M. The solve is a 2-equation Newton iteration with a
// numerical Jacobian, started at t2 = t1+0.1 s, a = 20 g.
//
// If t1 is never reached, or the iteration lands on a non-physical point
// (t2 <= t1 or a < 0), the zero sentinel is returned with no error: the
// caller records OLC as unavailable rather than failing the case.
func Calculate(timeS, velocityMps []float64, v0 float64, targets Targets) (*schema.OLCResult, error) {
	if len(timeS) < 10 || len(velocityMps) != len(timeS) {
		return nil, ErrTooShort
	}
	if v0 <= 0 {
		return nil, errors.New("olc: impact velocity must be positive")
	}

	sVeh := dsp.CumTrapz(velocityMps, timeS)

	// Relative displacement of the free-flying occupant.
	sRel := make([]float64, len(timeS))
	for i := range timeS {
		sRel[i] = v0*timeS[i] - sVeh[i]
	}

	idxT1 := -1
	for i, s := range sRel {
		if s >= targets.S1M {
			idxT1 = i
			break
		}
	}
	if idxT1 < 0 {
		// 65 mm never reached; unusual for a real crash but possible for
		// very soft pulses. Sentinel, not an error.
		return &schema.OLCResult{RelDisplacementM: sRel}, nil
	}
	t1 := timeS[idxT1]

	t2, aOLC, ok := solveTwoPoint(timeS, velocityMps, sVeh, v0, t1, targets.S2M)
	if !ok || t2 <= t1 || aOLC < 0 {
		return &schema.OLCResult{RelDisplacementM: sRel}, nil
	}

	return &schema.OLCResult{
		OLCg:             aOLC / schema.Gravity,
		T1S:              t1,
		T2S:              t2,
		V1Mps:            velocityMps[idxT1],
		V2Mps:            interp(t2, timeS, velocityMps),
		RelDisplacementM: sRel,
	}, nil
}

// residuals evaluates the two constraint equations at (t2, a).
func residuals(timeS, velocityMps, sVeh []float64, v0, t1, s2m, t2, a float64) (f1, f2 float64) {
	vVeh := interp(t2, timeS, velocityMps)
	sV := interp(t2, timeS, sVeh)

	// Velocity re-convergence: v_veh(t2) == v0 - a*(t2-t1).
	f1 = vVeh - (v0 - a*(t2-t1))

	// Relative displacement: occupant position minus vehicle position == s2m.
	sOcc := v0*t2 - 0.5*a*(t2-t1)*(t2-t1)
	f2 = (sOcc - sV) - s2m
	return f1, f2
}

// solveTwoPoint runs the bounded Newton iteration for (t2, a).
func solveTwoPoint(timeS, velocityMps, sVeh []float64, v0, t1, s2m float64) (t2, a float64, ok bool) {
	t2 = t1 + 0.1
	a = 20.0 * schema.Gravity

	var jac mat.Dense
	var rhs, delta mat.VecDense
	jac.ReuseAs(2, 2)
	rhs.ReuseAsVec(2)

	for iter := 0; iter < maxIter; iter++ {
		f1, f2 := residuals(timeS, velocityMps, sVeh, v0, t1, s2m, t2, a)
		if math.Abs(f1) < tol && math.Abs(f2) < tol {
			return t2, a, true
		}

		// Forward-difference Jacobian.
		ht := jacEps * math.Max(1.0, math.Abs(t2))
		ha := jacEps * math.Max(1.0, math.Abs(a))
		f1t, f2t := residuals(timeS, velocityMps, sVeh, v0, t1, s2m, t2+ht, a)
		f1a, f2a := residuals(timeS, velocityMps, sVeh, v0, t1, s2m, t2, a+ha)

		jac.Set(0, 0, (f1t-f1)/ht)
		jac.Set(0, 1, (f1a-f1)/ha)
		jac.Set(1, 0, (f2t-f2)/ht)
		jac.Set(1, 1, (f2a-f2)/ha)
		rhs.SetVec(0, -f1)
		rhs.SetVec(1, -f2)

		if err := delta.SolveVec(&jac, &rhs); err != nil {
			return 0, 0, false
		}
		t2 += delta.AtVec(0)
		a += delta.AtVec(1)

		if math.IsNaN(t2) || math.IsNaN(a) {
			return 0, 0, false
		}
	}

	// Accept a near-converged point rather than discard 50 iterations.
	f1, f2 := residuals(timeS, velocityMps, sVeh, v0, t1, s2m, t2, a)
	if math.Abs(f1) < 1e-4 && math.Abs(f2) < 1e-4 {
		return t2, a, true
	}
	return 0, 0, false
}

// interp linearly interpolates y at query x, clamping to the end values.
func interp(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	// Binary search for the bracketing interval.
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	frac := (x - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + frac*(ys[hi]-ys[lo])
}
