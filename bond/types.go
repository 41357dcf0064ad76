package bond

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/brbond/config"
)

// Cashflow is a single dated payment of a bond.
//
// Coupon and Principal are per unit of face (1000 for LTN/NTN-F) or per 100 of
// VNA for the index-linked kinds, so they sum to a quotation contribution.
type Cashflow struct {
	PaymentDate  time.Time
	Coupon       decimal.Decimal
	Principal    decimal.Decimal
	BusinessDays int
	// Exponent is BusinessDays/252 rounded to 14 places.
	Exponent decimal.Decimal
	// PresentValue is filled by pricing; zero on a bare schedule.
	PresentValue decimal.Decimal
}

func (c Cashflow) Amount() decimal.Decimal {
	return c.Coupon.Add(c.Principal)
}

// PriceInput holds the parameters for pricing a bond from its yield.
type PriceInput struct {
	Kind          Kind
	ReferenceDate time.Time
	// MaturityDate is the nominal maturity; pricing rolls it to a business day.
	MaturityDate time.Time
	// RatePercent is the annual yield in percent (e.g. 12.5 for 12.5%).
	RatePercent decimal.Decimal
	// VNA is required for LFT, NTN-B and NTN-C and rejected otherwise.
	VNA decimal.NullDecimal
}

// PriceResult is the output of Price.
type PriceResult struct {
	UnitPrice decimal.Decimal
	// Quotation is the percentage-of-100 price; only set for coupon kinds.
	Quotation decimal.Decimal
	// Rate is the truncated rate actually used.
	Rate             decimal.Decimal
	AdjustedMaturity time.Time
	BusinessDays     int
	Cashflows        []Cashflow
}

// YieldInput holds the parameters for inverting a unit price.
type YieldInput struct {
	Kind          Kind
	ReferenceDate time.Time
	MaturityDate  time.Time
	UnitPrice     decimal.Decimal
	VNA           decimal.NullDecimal
	// Solver overrides config.DefaultConfig when non-nil.
	Solver *config.Config
}

// YieldResult is the output of Yield.
type YieldResult struct {
	// RatePercent is the truncated annual yield in percent.
	RatePercent decimal.Decimal
	// UnitPrice is the price recomputed at RatePercent.
	UnitPrice  decimal.Decimal
	Iterations int
}
