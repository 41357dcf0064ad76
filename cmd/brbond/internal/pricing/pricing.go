// Package pricing runs batches of price and yield requests through the bond
// engine, one errgroup worker per request up to a configured limit.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/brbond/bond"
	"github.com/meenmo/brbond/calendar"
	"github.com/meenmo/brbond/config"
	"github.com/meenmo/brbond/marketdata/vna"
	"github.com/meenmo/brbond/utils"
)

type PriceRequest struct {
	TaskID        string                     `json:"task_id,omitempty"`
	Kind          string                     `json:"kind"`
	ReferenceDate string                     `json:"reference_date"`
	MaturityDate  string                     `json:"maturity_date"`
	Rate          decimal.NullDecimal        `json:"rate"`
	VNA           decimal.NullDecimal        `json:"vna"`
	VNASeries     map[string]decimal.Decimal `json:"vna_series,omitempty"`
	Quantity      decimal.NullDecimal        `json:"quantity"`
}

type PriceResponse struct {
	TaskID           string           `json:"task_id,omitempty"`
	Kind             string           `json:"kind,omitempty"`
	ReferenceDate    string           `json:"reference_date,omitempty"`
	MaturityDate     string           `json:"maturity_date,omitempty"`
	AdjustedMaturity string           `json:"adjusted_maturity,omitempty"`
	BusinessDays     int              `json:"business_days,omitempty"`
	Rate             *decimal.Decimal `json:"rate,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	Quotation        *decimal.Decimal `json:"quotation,omitempty"`
	VNA              *decimal.Decimal `json:"vna,omitempty"`
	FinancialValue   *decimal.Decimal `json:"financial_value,omitempty"`
	Cashflows        []CashflowJSON   `json:"cashflows,omitempty"`
	Error            string           `json:"error,omitempty"`
}

type CashflowJSON struct {
	PaymentDate  string          `json:"payment_date"`
	Coupon       decimal.Decimal `json:"coupon"`
	Principal    decimal.Decimal `json:"principal"`
	BusinessDays int             `json:"business_days"`
	Exponent     decimal.Decimal `json:"exponent"`
	PresentValue decimal.Decimal `json:"present_value"`
}

type YieldRequest struct {
	TaskID        string                     `json:"task_id,omitempty"`
	Kind          string                     `json:"kind"`
	ReferenceDate string                     `json:"reference_date"`
	MaturityDate  string                     `json:"maturity_date"`
	UnitPrice     decimal.NullDecimal        `json:"unit_price"`
	VNA           decimal.NullDecimal        `json:"vna"`
	VNASeries     map[string]decimal.Decimal `json:"vna_series,omitempty"`
}

type YieldResponse struct {
	TaskID        string           `json:"task_id,omitempty"`
	Kind          string           `json:"kind,omitempty"`
	ReferenceDate string           `json:"reference_date,omitempty"`
	MaturityDate  string           `json:"maturity_date,omitempty"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	VNA           *decimal.Decimal `json:"vna,omitempty"`
	Iterations    int              `json:"iterations,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// Runner prices batches. Workers bounds the number of concurrent requests.
type Runner struct {
	Workers int
	Solver  config.Config
	Logger  *zap.Logger
}

// PriceAll returns one response per request, in request order. A failed
// request carries its error in the response and never stops the batch.
func (r *Runner) PriceAll(ctx context.Context, reqs []PriceRequest) []PriceResponse {
	out := make([]PriceResponse, len(reqs))
	r.fanOut(ctx, len(reqs), func(i int) {
		req := reqs[i]
		if req.TaskID == "" {
			req.TaskID = uuid.NewString()
		}
		res, err := r.price(req)
		if err != nil {
			r.Logger.Warn("price failed", zap.String("task_id", req.TaskID), zap.String("kind", req.Kind), zap.Error(err))
			res = PriceResponse{TaskID: req.TaskID, Error: err.Error()}
		}
		out[i] = res
	}, func(i int, err error) {
		out[i] = PriceResponse{TaskID: reqs[i].TaskID, Error: err.Error()}
	})
	return out
}

// YieldAll is PriceAll for yield requests.
func (r *Runner) YieldAll(ctx context.Context, reqs []YieldRequest) []YieldResponse {
	out := make([]YieldResponse, len(reqs))
	r.fanOut(ctx, len(reqs), func(i int) {
		req := reqs[i]
		if req.TaskID == "" {
			req.TaskID = uuid.NewString()
		}
		res, err := r.yield(req)
		if err != nil {
			fields := []zap.Field{zap.String("task_id", req.TaskID), zap.String("kind", req.Kind), zap.Error(err)}
			var ce *bond.ComputationError
			if errors.As(err, &ce) {
				r.Logger.Warn("yield inversion failed", fields...)
			} else {
				r.Logger.Warn("yield request rejected", fields...)
			}
			res = YieldResponse{TaskID: req.TaskID, Error: err.Error()}
		}
		out[i] = res
	}, func(i int, err error) {
		out[i] = YieldResponse{TaskID: reqs[i].TaskID, Error: err.Error()}
	})
	return out
}

func (r *Runner) fanOut(ctx context.Context, n int, work func(i int), cancelled func(i int, err error)) {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				cancelled(i, err)
				return nil
			}
			work(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Runner) price(req PriceRequest) (PriceResponse, error) {
	if !req.Rate.Valid {
		return PriceResponse{}, fmt.Errorf("rate is required")
	}
	kind, ref, mat, err := parseCommon(req.Kind, req.ReferenceDate, req.MaturityDate)
	if err != nil {
		return PriceResponse{}, err
	}
	v, err := r.resolveVNA(req.TaskID, kind, ref, req.VNA, req.VNASeries)
	if err != nil {
		return PriceResponse{}, err
	}

	res, err := bond.Price(bond.PriceInput{
		Kind:          kind,
		ReferenceDate: ref,
		MaturityDate:  mat,
		RatePercent:   req.Rate.Decimal,
		VNA:           v,
	})
	if err != nil {
		return PriceResponse{}, err
	}

	out := PriceResponse{
		TaskID:           req.TaskID,
		Kind:             string(kind),
		ReferenceDate:    utils.FormatDate(ref),
		MaturityDate:     utils.FormatDate(mat),
		AdjustedMaturity: utils.FormatDate(res.AdjustedMaturity),
		BusinessDays:     res.BusinessDays,
		Rate:             &res.Rate,
		UnitPrice:        &res.UnitPrice,
		Cashflows:        make([]CashflowJSON, 0, len(res.Cashflows)),
	}
	if !kind.CouponAmount().IsZero() {
		out.Quotation = &res.Quotation
	}
	if v.Valid {
		out.VNA = &v.Decimal
	}
	if req.Quantity.Valid {
		fv, err := bond.FinancialValue(kind, res.UnitPrice, req.Quantity.Decimal)
		if err != nil {
			return PriceResponse{}, err
		}
		out.FinancialValue = &fv
	}
	for _, cf := range res.Cashflows {
		out.Cashflows = append(out.Cashflows, CashflowJSON{
			PaymentDate:  utils.FormatDate(cf.PaymentDate),
			Coupon:       cf.Coupon,
			Principal:    cf.Principal,
			BusinessDays: cf.BusinessDays,
			Exponent:     cf.Exponent,
			PresentValue: cf.PresentValue,
		})
	}

	r.Logger.Debug("priced",
		zap.String("task_id", req.TaskID),
		zap.String("kind", string(kind)),
		zap.Int("business_days", res.BusinessDays),
		zap.String("unit_price", res.UnitPrice.String()))
	return out, nil
}

func (r *Runner) yield(req YieldRequest) (YieldResponse, error) {
	if !req.UnitPrice.Valid {
		return YieldResponse{}, fmt.Errorf("unit_price is required")
	}
	kind, ref, mat, err := parseCommon(req.Kind, req.ReferenceDate, req.MaturityDate)
	if err != nil {
		return YieldResponse{}, err
	}
	v, err := r.resolveVNA(req.TaskID, kind, ref, req.VNA, req.VNASeries)
	if err != nil {
		return YieldResponse{}, err
	}

	solver := r.Solver
	res, err := bond.Yield(bond.YieldInput{
		Kind:          kind,
		ReferenceDate: ref,
		MaturityDate:  mat,
		UnitPrice:     req.UnitPrice.Decimal,
		VNA:           v,
		Solver:        &solver,
	})
	if err != nil {
		return YieldResponse{}, err
	}

	out := YieldResponse{
		TaskID:        req.TaskID,
		Kind:          string(kind),
		ReferenceDate: utils.FormatDate(ref),
		MaturityDate:  utils.FormatDate(mat),
		Rate:          &res.RatePercent,
		UnitPrice:     &res.UnitPrice,
		Iterations:    res.Iterations,
	}
	if v.Valid {
		out.VNA = &v.Decimal
	}
	r.Logger.Debug("yield solved",
		zap.String("task_id", req.TaskID),
		zap.String("kind", string(kind)),
		zap.Int("iterations", res.Iterations),
		zap.String("rate", res.RatePercent.String()))
	return out, nil
}

// resolveVNA prefers an explicit value, then the series entry for the
// reference date, then the latest earlier entry.
func (r *Runner) resolveVNA(taskID string, kind bond.Kind, ref time.Time, explicit decimal.NullDecimal, series map[string]decimal.Decimal) (decimal.NullDecimal, error) {
	if explicit.Valid || len(series) == 0 {
		return explicit, nil
	}
	if !kind.UsesVNA() {
		return decimal.NullDecimal{}, fmt.Errorf("vna_series given for %s, which is not index-linked", kind)
	}

	feed, err := vna.NewMapIndexFeed(series)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if v := vna.ValueOnDate(feed, ref); v.Valid {
		return v, nil
	}
	v, published, ok := feed.ValueOnOrBefore(ref)
	if !ok {
		return decimal.NullDecimal{}, fmt.Errorf("vna_series has no value on or before %s", utils.FormatDate(ref))
	}
	r.Logger.Warn("using VNA published before the reference date",
		zap.String("task_id", taskID),
		zap.String("reference_date", utils.FormatDate(ref)),
		zap.String("published", published.String()))
	return decimal.NewNullDecimal(v), nil
}

func parseCommon(kindName, reference, maturity string) (bond.Kind, time.Time, time.Time, error) {
	kind, err := bond.ParseKind(kindName)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	ref, err := parseDate("reference_date", reference)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	mat, err := parseDate("maturity_date", maturity)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return kind, ref, mat, nil
}

// parseDate rejects dates the holiday rules do not cover, which the calendar
// would otherwise treat as fatal.
func parseDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	d, err := utils.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	if !calendar.Supports(d) {
		return time.Time{}, fmt.Errorf("invalid %s: year %d outside the supported calendar range", field, d.Year())
	}
	return d, nil
}
