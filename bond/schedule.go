package bond

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/brbond/calendar"
	"github.com/meenmo/brbond/rounding"
	"github.com/meenmo/brbond/utils"
)

const couponPeriodMonths = 6

var businessYear = decimal.NewFromInt(utils.BusinessDaysPerYear)

// schedule is the rate-independent part of a pricing problem. Business-day
// counts are computed once here and reused by every solver evaluation.
type schedule struct {
	kind      Kind
	desc      descriptor
	reference time.Time
	maturity  time.Time
	adjusted  time.Time
	flows     []Cashflow
}

func newSchedule(kind Kind, reference, maturity time.Time) (*schedule, error) {
	desc, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	if reference.IsZero() || maturity.IsZero() {
		return nil, ErrMissingDate
	}
	reference = dateOnly(reference)
	maturity = dateOnly(maturity)
	if !maturity.After(reference) {
		return nil, ErrMaturityNotAfterReference
	}

	s := &schedule{
		kind:      kind,
		desc:      desc,
		reference: reference,
		maturity:  maturity,
		adjusted:  calendar.AdjustFollowing(calendar.Settlement, maturity),
	}

	var dates []time.Time
	if desc.paysCoupon() {
		dates = couponDates(reference, maturity)
	}

	s.flows = make([]Cashflow, 0, len(dates)+1)
	prev, du := reference, 0
	for _, d := range dates {
		du += calendar.BusinessDaysBetween(calendar.Settlement, prev, d)
		s.flows = append(s.flows, s.newFlow(d, du, desc.coupon, decimal.Zero))
		prev = d
	}

	du += calendar.BusinessDaysBetween(calendar.Settlement, prev, s.adjusted)
	final := decimal.Zero
	if desc.couponAtMaturity(maturity) {
		final = desc.coupon
	}
	s.flows = append(s.flows, s.newFlow(s.adjusted, du, final, desc.face))
	return s, nil
}

func (s *schedule) newFlow(date time.Time, du int, coupon, principal decimal.Decimal) Cashflow {
	exp := decimal.NewFromInt(int64(du)).DivRound(businessYear, 24)
	return Cashflow{
		PaymentDate:  date,
		Coupon:       coupon,
		Principal:    principal,
		BusinessDays: du,
		Exponent:     rounding.Apply(exp, s.desc.table, rounding.ExponentDays),
	}
}

// couponDates walks back from the nominal maturity in 6-month steps, keeping
// adjusted dates strictly after the reference date, in chronological order.
// Each step is taken from the maturity itself so day-of-month never drifts.
func couponDates(reference, maturity time.Time) []time.Time {
	var dates []time.Time
	for i := 1; ; i++ {
		d := calendar.AdjustFollowing(calendar.Settlement, utils.AddMonth(maturity, -couponPeriodMonths*i))
		if !d.After(reference) {
			break
		}
		dates = append(dates, d)
	}
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates
}

// evaluate prices the schedule at an already truncated rate. When out is
// non-nil it receives the flows with their present values.
func (s *schedule) evaluate(rate, vna decimal.Decimal, out []Cashflow) (unitPrice, quotation decimal.Decimal) {
	base := decimal.NewFromInt(1).Add(rate.Shift(-2)).InexactFloat64()
	table := s.desc.table

	if !s.desc.paysCoupon() {
		f := s.flows[0]
		amount := f.Principal
		if s.desc.usesVNA {
			amount = vna
		}
		pv := decimal.NewFromFloat(amount.InexactFloat64() / math.Pow(base, f.Exponent.InexactFloat64()))
		unitPrice = rounding.Apply(pv, table, rounding.UnitPrice)
		if out != nil {
			f.PresentValue = unitPrice
			out[0] = f
		}
		return unitPrice, decimal.Zero
	}

	sum := decimal.Zero
	for i, f := range s.flows {
		pv := decimal.NewFromFloat(f.Amount().InexactFloat64() / math.Pow(base, f.Exponent.InexactFloat64()))
		pv = rounding.Apply(pv, table, rounding.CashFlowPV)
		sum = sum.Add(pv)
		if out != nil {
			f.PresentValue = pv
			out[i] = f
		}
	}
	quotation = rounding.Apply(sum, table, rounding.Quotation)

	price := quotation
	if s.desc.usesVNA {
		price = quotation.Mul(vna).Shift(-2)
	}
	return rounding.Apply(price, table, rounding.UnitPrice), quotation
}

// Schedule returns the future cash flows of a bond without present values.
func Schedule(kind Kind, reference, maturity time.Time) ([]Cashflow, error) {
	s, err := newSchedule(kind, reference, maturity)
	if err != nil {
		return nil, err
	}
	out := make([]Cashflow, len(s.flows))
	copy(out, s.flows)
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
