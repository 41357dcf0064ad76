// Package rounding holds the ANBIMA truncation/rounding table applied at each
// step of a bond calculation.
//
// Rules are defined in decimal digits and evaluated with shopspring/decimal;
// a value that went through math.Pow must be re-quantised here before it is
// used again.
package rounding

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Instrument is the key of a rounding table. The bond package's kinds map
// onto these one to one.
type Instrument string

const (
	LTN  Instrument = "LTN"
	LFT  Instrument = "LFT"
	NTNF Instrument = "NTN-F"
	NTNB Instrument = "NTN-B"
	NTNC Instrument = "NTN-C"
)

// Quantity tags a value produced at a specific step of the pricing formula.
type Quantity string

const (
	RateReturn       Quantity = "RATE_RETURN"
	UnitPrice        Quantity = "UNIT_PRICE"
	SemiannualCoupon Quantity = "SEMIANNUAL_COUPON"
	CashFlowPV       Quantity = "CASH_FLOW_PV"
	ExponentDays     Quantity = "EXPONENT_DAYS"
	Quotation        Quantity = "QUOTATION"
	VNA              Quantity = "VNA"
	FinancialValue   Quantity = "FINANCIAL_VALUE"
)

// Mode selects how digits beyond Places are dropped.
type Mode int

const (
	// Truncate drops digits toward zero.
	Truncate Mode = iota
	// RoundHalfAwayFromZero rounds 0.5 away from zero.
	RoundHalfAwayFromZero
)

func (m Mode) String() string {
	switch m {
	case Truncate:
		return "TRUNCATE"
	case RoundHalfAwayFromZero:
		return "ROUND"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Spec is one table entry.
type Spec struct {
	Places int32
	Mode   Mode
}

// Apply quantises value according to s.
func (s Spec) Apply(value decimal.Decimal) decimal.Decimal {
	switch s.Mode {
	case Truncate:
		return value.Truncate(s.Places)
	case RoundHalfAwayFromZero:
		return value.Round(s.Places)
	default:
		panic(fmt.Sprintf("rounding: unknown mode %v", s.Mode))
	}
}

type key struct {
	instrument Instrument
	quantity   Quantity
}

func trunc(places int32) Spec { return Spec{Places: places, Mode: Truncate} }
func round(places int32) Spec { return Spec{Places: places, Mode: RoundHalfAwayFromZero} }

// table is built once and never written afterwards.
var table = build()

func build() map[key]Spec {
	common := map[Quantity]Spec{
		RateReturn:     trunc(4),
		ExponentDays:   round(14),
		UnitPrice:      trunc(6),
		FinancialValue: trunc(2),
	}
	perInstrument := map[Instrument]map[Quantity]Spec{
		LTN: {},
		LFT: {
			VNA: trunc(6),
		},
		NTNF: {
			SemiannualCoupon: round(5),
			CashFlowPV:       round(9),
			Quotation:        trunc(6),
		},
		NTNB: {
			SemiannualCoupon: round(6),
			CashFlowPV:       round(10),
			Quotation:        trunc(4),
			VNA:              trunc(6),
		},
		NTNC: {
			SemiannualCoupon: round(6),
			CashFlowPV:       round(10),
			Quotation:        trunc(4),
			VNA:              trunc(6),
		},
	}

	out := make(map[key]Spec)
	for inst, specific := range perInstrument {
		for q, s := range common {
			out[key{inst, q}] = s
		}
		for q, s := range specific {
			out[key{inst, q}] = s
		}
	}
	return out
}

// Lookup returns the table entry for (instrument, quantity).
func Lookup(instrument Instrument, quantity Quantity) (Spec, bool) {
	s, ok := table[key{instrument, quantity}]
	return s, ok
}

// Apply quantises value per the (instrument, quantity) entry. A missing entry
// is a programming error and panics.
func Apply(value decimal.Decimal, instrument Instrument, quantity Quantity) decimal.Decimal {
	s, ok := Lookup(instrument, quantity)
	if !ok {
		panic(fmt.Sprintf("rounding: no rule for %s/%s", instrument, quantity))
	}
	return s.Apply(value)
}

// Instruments lists the instruments that have a table.
func Instruments() []Instrument {
	return []Instrument{LTN, LFT, NTNF, NTNB, NTNC}
}
