package rounding_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/meenmo/brbond/rounding"
)

func TestApply(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		value      string
		instrument rounding.Instrument
		quantity   rounding.Quantity
		want       string
	}{
		{"rate truncated", "12.345678", rounding.LTN, rounding.RateReturn, "12.3456"},
		{"negative rate truncated toward zero", "-0.123456", rounding.LFT, rounding.RateReturn, "-0.1234"},
		{"unit price truncated", "892.8571428571428", rounding.LTN, rounding.UnitPrice, "892.857142"},
		{"ntnf coupon rounded", "48.808848170151", rounding.NTNF, rounding.SemiannualCoupon, "48.80885"},
		{"ntnb coupon rounded", "2.9563014098", rounding.NTNB, rounding.SemiannualCoupon, "2.956301"},
		{"half away from zero", "0.0000000005", rounding.NTNF, rounding.CashFlowPV, "0.000000001"},
		{"negative half away from zero", "-2.0000000005", rounding.NTNF, rounding.CashFlowPV, "-2.000000001"},
		{"quotation truncated", "97.12349", rounding.NTNB, rounding.Quotation, "97.1234"},
		{"exponent rounded", "0.484126984126984126", rounding.NTNC, rounding.ExponentDays, "0.48412698412698"},
		{"financial value", "1234.5678", rounding.LFT, rounding.FinancialValue, "1234.56"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := rounding.Apply(decimal.RequireFromString(tc.value), tc.instrument, tc.quantity)
			want := decimal.RequireFromString(tc.want)
			if !got.Equal(want) {
				t.Fatalf("Apply mismatch: got %s want %s", got, want)
			}
		})
	}
}

func TestTableIsExhaustive(t *testing.T) {
	t.Parallel()

	required := map[rounding.Instrument][]rounding.Quantity{
		rounding.LTN:  {rounding.RateReturn, rounding.ExponentDays, rounding.UnitPrice, rounding.FinancialValue},
		rounding.LFT:  {rounding.RateReturn, rounding.ExponentDays, rounding.VNA, rounding.UnitPrice, rounding.FinancialValue},
		rounding.NTNF: {rounding.RateReturn, rounding.ExponentDays, rounding.SemiannualCoupon, rounding.CashFlowPV, rounding.Quotation, rounding.UnitPrice, rounding.FinancialValue},
		rounding.NTNB: {rounding.RateReturn, rounding.ExponentDays, rounding.SemiannualCoupon, rounding.CashFlowPV, rounding.Quotation, rounding.VNA, rounding.UnitPrice, rounding.FinancialValue},
		rounding.NTNC: {rounding.RateReturn, rounding.ExponentDays, rounding.SemiannualCoupon, rounding.CashFlowPV, rounding.Quotation, rounding.VNA, rounding.UnitPrice, rounding.FinancialValue},
	}
	for _, inst := range rounding.Instruments() {
		for _, q := range required[inst] {
			if _, ok := rounding.Lookup(inst, q); !ok {
				t.Fatalf("missing rule for %s/%s", inst, q)
			}
		}
	}
}

func TestApply_UnknownPairPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for LTN/VNA")
		}
	}()
	rounding.Apply(decimal.NewFromInt(1), rounding.LTN, rounding.VNA)
}
