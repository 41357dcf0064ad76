package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/brbond/config"
	"github.com/meenmo/brbond/rounding"
)

// Yield solves for the annual rate at which Price reproduces in.UnitPrice.
//
// The residual is f(x) = PU(trunc4(x)) − trunc6(target). Because the candidate
// rate is truncated before every evaluation, f is a step function and the
// solver lands on the same 4-decimal rate ANBIMA publishes.
//
// A bracket without a sign change, or a solver that runs out of iterations,
// is reported as a *ComputationError.
func Yield(in YieldInput) (YieldResult, error) {
	s, err := newSchedule(in.Kind, in.ReferenceDate, in.MaturityDate)
	if err != nil {
		return YieldResult{}, fmt.Errorf("Yield: %w", err)
	}
	if !in.UnitPrice.IsPositive() {
		return YieldResult{}, fmt.Errorf("Yield: %w: %s", ErrInvalidPrice, in.UnitPrice)
	}
	vna, err := s.vna(in.VNA)
	if err != nil {
		return YieldResult{}, fmt.Errorf("Yield: %w", err)
	}

	cfg := config.OrDefault(in.Solver)
	bracket := cfg.NominalBracket
	if s.desc.realYield {
		bracket = cfg.RealBracket
	}

	table := s.desc.table
	target := rounding.Apply(in.UnitPrice, table, rounding.UnitPrice)
	truncated := func(x float64) decimal.Decimal {
		return rounding.Apply(decimal.NewFromFloat(x), table, rounding.RateReturn)
	}
	residual := func(x float64) float64 {
		pu, _ := s.evaluate(truncated(x), vna, nil)
		return pu.Sub(target).InexactFloat64()
	}

	x, iterations, err := brent(residual, bracket.Lo, bracket.Hi, cfg)
	if err != nil {
		return YieldResult{}, &ComputationError{
			Kind:      s.kind,
			Reference: s.reference,
			Maturity:  s.maturity,
			Err:       err,
		}
	}

	rate := truncated(x)
	pu, _ := s.evaluate(rate, vna, nil)
	return YieldResult{
		RatePercent: rate,
		UnitPrice:   pu,
		Iterations:  iterations,
	}, nil
}

// YieldFromPrice is Yield with the default solver, reduced to the rate.
func YieldFromPrice(kind Kind, reference, maturity time.Time, unitPrice decimal.Decimal, vna decimal.NullDecimal) (decimal.Decimal, error) {
	res, err := Yield(YieldInput{
		Kind:          kind,
		ReferenceDate: reference,
		MaturityDate:  maturity,
		UnitPrice:     unitPrice,
		VNA:           vna,
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return res.RatePercent, nil
}

// ---------------------------------------------------------------------------
// Brent solver (unexported)
// ---------------------------------------------------------------------------

const machineEpsilon = 2.220446049250313e-16

// brent finds x in [a, b] with |f(x)| < cfg.Accuracy, or stops when the
// bracket shrinks below cfg.RateTolerance. f(a) and f(b) must differ in sign.
// It combines inverse quadratic interpolation, secant steps and bisection.
func brent(f func(float64) float64, a, b float64, cfg config.Config) (float64, int, error) {
	fa, fb := f(a), f(b)
	if math.Abs(fa) < cfg.Accuracy {
		return a, 0, nil
	}
	if math.Abs(fb) < cfg.Accuracy {
		return b, 0, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, 0, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrRootNotBracketed, a, fa, b, fb)
	}

	c, fc := a, fa
	d := b - a
	e := d
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := 2*machineEpsilon*math.Abs(b) + 0.5*cfg.RateTolerance
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol || math.Abs(fb) < cfg.Accuracy {
			return b, iter, nil
		}

		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			s := fb / fa
			var p, q float64
			if a == c {
				// secant
				p = 2 * xm * s
				q = 1 - s
			} else {
				// inverse quadratic
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, xm)
		}
		fb = f(b)
	}
	return b, cfg.MaxIterations, fmt.Errorf("%w after %d iterations", ErrNoConvergence, cfg.MaxIterations)
}
