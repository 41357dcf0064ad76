package bond

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/brbond/rounding"
)

// Kind identifies a Brazilian federal bond family.
type Kind string

const (
	// LTN is the zero-coupon nominal bond (Letra do Tesouro Nacional).
	LTN Kind = "LTN"
	// LFT is the zero-coupon Selic-indexed bond (Letra Financeira do Tesouro).
	LFT Kind = "LFT"
	// NTNF pays 10% p.a. semiannual coupons on a 1000 nominal face.
	NTNF Kind = "NTN-F"
	// NTNB is IPCA-indexed and pays 6% p.a. semiannual coupons.
	NTNB Kind = "NTN-B"
	// NTNC is IGP-M-indexed and pays 12% p.a. semiannual coupons.
	NTNC Kind = "NTN-C"
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{LTN, LFT, NTNF, NTNB, NTNC}
}

// ParseKind accepts the official ticker with or without the hyphen.
func ParseKind(value string) (Kind, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "", "_", "", " ", "").Replace(v)
	switch v {
	case "LTN":
		return LTN, nil
	case "LFT":
		return LFT, nil
	case "NTNF":
		return NTNF, nil
	case "NTNB":
		return NTNB, nil
	case "NTNC":
		return NTNC, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}

type monthDay struct {
	month time.Month
	day   int
}

// descriptor carries everything that differs between kinds; the pricing
// algorithm itself is shared.
type descriptor struct {
	face         decimal.Decimal
	annualCoupon float64 // zero for zero-coupon kinds
	coupon       decimal.Decimal
	usesVNA      bool
	realYield    bool // searched over the real-rate bracket
	anchors      []monthDay
	table        rounding.Instrument
}

func (d descriptor) paysCoupon() bool {
	return d.annualCoupon > 0
}

func (d descriptor) couponAtMaturity(maturity time.Time) bool {
	if !d.paysCoupon() {
		return false
	}
	for _, a := range d.anchors {
		if maturity.Month() == a.month && maturity.Day() == a.day {
			return true
		}
	}
	return false
}

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
)

var descriptors = map[Kind]descriptor{
	LTN: {
		face:  thousand,
		table: rounding.LTN,
	},
	LFT: {
		face:      hundred,
		usesVNA:   true,
		realYield: true,
		table:     rounding.LFT,
	},
	NTNF: withCoupon(descriptor{
		face:         thousand,
		annualCoupon: 0.10,
		anchors:      []monthDay{{time.January, 1}, {time.July, 1}},
		table:        rounding.NTNF,
	}),
	NTNB: withCoupon(descriptor{
		face:         hundred,
		annualCoupon: 0.06,
		usesVNA:      true,
		realYield:    true,
		anchors:      []monthDay{{time.May, 15}, {time.August, 15}},
		table:        rounding.NTNB,
	}),
	NTNC: withCoupon(descriptor{
		face:         hundred,
		annualCoupon: 0.12,
		usesVNA:      true,
		realYield:    true,
		anchors:      []monthDay{{time.January, 1}, {time.July, 1}},
		table:        rounding.NTNC,
	}),
}

// withCoupon compounds the annual coupon to a semester and scales it to the face.
func withCoupon(d descriptor) descriptor {
	semester := d.face.InexactFloat64() * (math.Pow(1+d.annualCoupon, 0.5) - 1)
	d.coupon = rounding.Apply(decimal.NewFromFloat(semester), d.table, rounding.SemiannualCoupon)
	return d
}

func lookup(kind Kind) (descriptor, error) {
	d, ok := descriptors[kind]
	if !ok {
		return descriptor{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
	return d, nil
}

// UsesVNA reports whether the kind's price is quoted against an updated nominal value.
func (k Kind) UsesVNA() bool {
	return descriptors[k].usesVNA
}

// CouponAmount returns the rounded semiannual coupon per face (1000 for NTN-F,
// 100 for the VNA-indexed kinds). Zero-coupon kinds return zero.
func (k Kind) CouponAmount() decimal.Decimal {
	return descriptors[k].coupon
}

// Instrument returns the rounding table key for the kind.
func (k Kind) Instrument() rounding.Instrument {
	return descriptors[k].table
}
