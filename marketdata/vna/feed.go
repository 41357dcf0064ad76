// Package vna supplies updated nominal values (VNA) for the index-linked
// bonds. Sources are caller-provided; nothing here fetches data.
package vna

import (
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/meenmo/brbond/utils"
)

// IndexFeed supplies the VNA published for a date.
type IndexFeed interface {
	ValueOn(date time.Time) (decimal.Decimal, bool)
}

// MapIndexFeed is a static map-backed implementation, built from a JSON
// series or for testing.
type MapIndexFeed struct {
	values map[civil.Date]decimal.Decimal
	dates  []civil.Date // ascending
}

// NewMapIndexFeed parses YYYY-MM-DD keys. Non-positive values are rejected.
func NewMapIndexFeed(values map[string]decimal.Decimal) (*MapIndexFeed, error) {
	m := &MapIndexFeed{values: make(map[civil.Date]decimal.Decimal, len(values))}
	for k, v := range values {
		d, err := civil.ParseDate(k)
		if err != nil {
			return nil, fmt.Errorf("NewMapIndexFeed: invalid date %q: %w", k, err)
		}
		if !v.IsPositive() {
			return nil, fmt.Errorf("NewMapIndexFeed: non-positive VNA %s on %s", v, k)
		}
		m.values[d] = v
		m.dates = append(m.dates, d)
	}
	sort.Slice(m.dates, func(i, j int) bool { return m.dates[i].Before(m.dates[j]) })
	return m, nil
}

func (m *MapIndexFeed) ValueOn(date time.Time) (decimal.Decimal, bool) {
	v, ok := m.values[utils.CivilDate(date)]
	return v, ok
}

// ValueOnOrBefore returns the latest value published on or before date,
// together with its publication date.
func (m *MapIndexFeed) ValueOnOrBefore(date time.Time) (decimal.Decimal, civil.Date, bool) {
	target := utils.CivilDate(date)
	idx := sort.Search(len(m.dates), func(i int) bool {
		return target.Before(m.dates[i])
	})
	if idx == 0 {
		return decimal.Decimal{}, civil.Date{}, false
	}
	d := m.dates[idx-1]
	return m.values[d], d, true
}

// Len is the number of published values.
func (m *MapIndexFeed) Len() int {
	return len(m.dates)
}

// ValueOnDate is a convenience helper returning a NullDecimal ready for the
// bond pricing inputs.
func ValueOnDate(feed IndexFeed, date time.Time) decimal.NullDecimal {
	v, ok := feed.ValueOn(date)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}
