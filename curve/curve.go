// Package curve builds yield curves from discrete vertices quoted in business
// days on the B3 calendar.
package curve

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/meenmo/brbond/calendar"
	"github.com/meenmo/brbond/utils"
)

// DefaultMinPointsPerSegment is the number of synthetic points BuildCurve
// aims for between two vertices.
const DefaultMinPointsPerSegment = 5

var (
	ErrUnknownMethod        = errors.New("unknown interpolation method")
	ErrDuplicateVertex      = errors.New("duplicate vertex business days")
	ErrNegativeBusinessDays = errors.New("vertex business days must be non-negative")
	ErrInvalidMinPoints     = errors.New("min points per segment must be non-negative")
	ErrEmptyCurve           = errors.New("curve has no points")
)

// Point is one vertex or interpolated point of a curve.
type Point struct {
	BusinessDays int        `json:"business_days"`
	RatePercent  float64    `json:"rate"`
	MaturityDate civil.Date `json:"maturity_date"`
	SourceTicker string     `json:"source_ticker,omitempty"`
	Interpolated bool       `json:"is_interpolated"`
}

// Curve is a built curve: vertices plus generated points, ordered by du.
type Curve struct {
	ReferenceDate time.Time
	Method        Method
	Points        []Point
}

// NewVertex builds a market vertex, counting du on the Exchange calendar.
func NewVertex(reference, maturity time.Time, ratePercent float64, ticker string) (Point, error) {
	du := calendar.BusinessDaysBetween(calendar.Exchange, reference, maturity)
	if du < 0 {
		return Point{}, fmt.Errorf("NewVertex: %w: %s before %s", ErrNegativeBusinessDays,
			utils.FormatDate(maturity), utils.FormatDate(reference))
	}
	return Point{
		BusinessDays: du,
		RatePercent:  ratePercent,
		MaturityDate: utils.CivilDate(maturity),
		SourceTicker: ticker,
	}, nil
}

// GenerateInterpolatedCurve sorts vertices by du and, between each adjacent
// pair, emits interpolated points every max(1, Δdu/(minPointsPerSegment+1))
// business days. Vertices are kept with their own flags; interpolated points
// get a maturity reference+du on the Exchange calendar.
func GenerateInterpolatedCurve(vertices []Point, reference time.Time, method Method, minPointsPerSegment int) ([]Point, error) {
	if minPointsPerSegment < 0 {
		return nil, fmt.Errorf("GenerateInterpolatedCurve: %w: %d", ErrInvalidMinPoints, minPointsPerSegment)
	}
	if method != Linear && method != FlatForward {
		return nil, fmt.Errorf("GenerateInterpolatedCurve: %w: %q", ErrUnknownMethod, string(method))
	}
	switch len(vertices) {
	case 0:
		return []Point{}, nil
	case 1:
		return []Point{vertices[0]}, nil
	}

	sorted, err := sortedVertices(vertices)
	if err != nil {
		return nil, fmt.Errorf("GenerateInterpolatedCurve: %w", err)
	}

	// Maturities advance monotonically with du, so step from the previous one.
	anchor, anchorDU := dateOnly(reference), 0
	maturityAt := func(du int) civil.Date {
		anchor = calendar.AddBusinessDays(calendar.Exchange, anchor, du-anchorDU)
		anchorDU = du
		return utils.CivilDate(anchor)
	}

	out := make([]Point, 0, len(sorted)*(minPointsPerSegment+1))
	for i, v := range sorted {
		if v.MaturityDate == (civil.Date{}) {
			v.MaturityDate = maturityAt(v.BusinessDays)
		}
		out = append(out, v)
		if i == len(sorted)-1 {
			break
		}

		next := sorted[i+1]
		step := (next.BusinessDays - v.BusinessDays) / (minPointsPerSegment + 1)
		if step < 1 {
			step = 1
		}
		for du := v.BusinessDays + step; du < next.BusinessDays; du += step {
			out = append(out, Point{
				BusinessDays: du,
				RatePercent:  Interpolate(du, v.BusinessDays, next.BusinessDays, v.RatePercent, next.RatePercent, method),
				MaturityDate: maturityAt(du),
				Interpolated: true,
			})
		}
	}
	return out, nil
}

// BuildCurve generates a curve with DefaultMinPointsPerSegment points per segment.
func BuildCurve(vertices []Point, reference time.Time, method Method) (*Curve, error) {
	points, err := GenerateInterpolatedCurve(vertices, reference, method, DefaultMinPointsPerSegment)
	if err != nil {
		return nil, err
	}
	return &Curve{
		ReferenceDate: dateOnly(reference),
		Method:        method,
		Points:        points,
	}, nil
}

// RateAt interpolates the curve at du, clamping outside the point range.
func (c *Curve) RateAt(du int) (float64, error) {
	switch len(c.Points) {
	case 0:
		return 0, ErrEmptyCurve
	case 1:
		return c.Points[0].RatePercent, nil
	}
	lo, hi := findBracketOrBoundary(c.Points, du)
	return Interpolate(du, lo.BusinessDays, hi.BusinessDays, lo.RatePercent, hi.RatePercent, c.Method), nil
}

// RateOn interpolates the curve at a calendar date.
func (c *Curve) RateOn(date time.Time) (float64, error) {
	return c.RateAt(calendar.BusinessDaysBetween(calendar.Exchange, c.ReferenceDate, date))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
