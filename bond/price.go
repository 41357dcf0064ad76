package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/brbond/rounding"
)

var minusHundred = decimal.NewFromInt(-100)

// Price computes the ANBIMA unit price of a bond from its annual yield.
//
//	zero coupon:  PU  = trunc6( face or VNA / (1+i)^(du/252) )
//	coupon kinds: Q   = trunc( Σ round( CF_k / (1+i)^(du_k/252) ) )
//	              PU  = trunc6( Q )             NTN-F
//	              PU  = trunc6( Q × VNA / 100 ) NTN-B, NTN-C
//
// The rate is truncated to 4 decimals before discounting.
func Price(in PriceInput) (PriceResult, error) {
	s, err := newSchedule(in.Kind, in.ReferenceDate, in.MaturityDate)
	if err != nil {
		return PriceResult{}, fmt.Errorf("Price: %w", err)
	}
	if !in.RatePercent.GreaterThan(minusHundred) {
		return PriceResult{}, fmt.Errorf("Price: %w: %s", ErrInvalidRate, in.RatePercent)
	}
	vna, err := s.vna(in.VNA)
	if err != nil {
		return PriceResult{}, fmt.Errorf("Price: %w", err)
	}

	rate := rounding.Apply(in.RatePercent, s.desc.table, rounding.RateReturn)
	if !s.discountable(rate) {
		return PriceResult{}, fmt.Errorf("Price: %w: %s overflows the discount factor", ErrInvalidRate, rate)
	}
	flows := make([]Cashflow, len(s.flows))
	pu, quotation := s.evaluate(rate, vna, flows)

	last := flows[len(flows)-1]
	return PriceResult{
		UnitPrice:        pu,
		Quotation:        quotation,
		Rate:             rate,
		AdjustedMaturity: s.adjusted,
		BusinessDays:     last.BusinessDays,
		Cashflows:        flows,
	}, nil
}

// PriceFromYield is Price reduced to its unit price.
func PriceFromYield(kind Kind, reference, maturity time.Time, ratePercent decimal.Decimal, vna decimal.NullDecimal) (decimal.Decimal, error) {
	res, err := Price(PriceInput{
		Kind:          kind,
		ReferenceDate: reference,
		MaturityDate:  maturity,
		RatePercent:   ratePercent,
		VNA:           vna,
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return res.UnitPrice, nil
}

// FinancialValue is the settlement amount of quantity units at unitPrice,
// truncated to cents.
func FinancialValue(kind Kind, unitPrice, quantity decimal.Decimal) (decimal.Decimal, error) {
	desc, err := lookup(kind)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("FinancialValue: %w", err)
	}
	return rounding.Apply(unitPrice.Mul(quantity), desc.table, rounding.FinancialValue), nil
}

// discountable reports whether the longest discount factor at rate is a
// finite non-zero float.
func (s *schedule) discountable(rate decimal.Decimal) bool {
	base := decimal.NewFromInt(1).Add(rate.Shift(-2)).InexactFloat64()
	f := math.Pow(base, s.flows[len(s.flows)-1].Exponent.InexactFloat64())
	return f > 0 && !math.IsInf(f, 0)
}

// vna validates and truncates the index value against the kind.
func (s *schedule) vna(v decimal.NullDecimal) (decimal.Decimal, error) {
	if !s.desc.usesVNA {
		if v.Valid {
			return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrUnexpectedVNA, s.kind)
		}
		return decimal.Zero, nil
	}
	if !v.Valid || !v.Decimal.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrMissingVNA, s.kind)
	}
	return rounding.Apply(v.Decimal, s.desc.table, rounding.VNA), nil
}
