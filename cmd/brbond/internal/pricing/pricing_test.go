package pricing_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/meenmo/brbond/cmd/brbond/internal/pricing"
	"github.com/meenmo/brbond/config"
)

func newRunner() *pricing.Runner {
	return &pricing.Runner{Workers: 4, Solver: config.DefaultConfig, Logger: zap.NewNop()}
}

func decodePriceRequests(t *testing.T, raw string) []pricing.PriceRequest {
	t.Helper()
	var reqs []pricing.PriceRequest
	if err := json.Unmarshal([]byte(raw), &reqs); err != nil {
		t.Fatalf("parse requests: %v", err)
	}
	return reqs
}

func TestPriceAll(t *testing.T) {
	t.Parallel()

	reqs := decodePriceRequests(t, `[
		{"task_id": "ltn", "kind": "LTN", "reference_date": "2025-01-02", "maturity_date": "2026-01-01", "rate": 12, "quantity": "150"},
		{"kind": "NTN-B", "reference_date": "2025-01-02", "maturity_date": "2035-05-15", "rate": "7.2345", "vna": "4400.123456"},
		{"task_id": "bad-date", "kind": "LTN", "reference_date": "2025-02-30", "maturity_date": "2026-01-01", "rate": 12},
		{"task_id": "no-rate", "kind": "LTN", "reference_date": "2025-01-02", "maturity_date": "2026-01-01"},
		{"task_id": "ancient", "kind": "LTN", "reference_date": "1200-01-02", "maturity_date": "2026-01-01", "rate": 12}
	]`)

	out := newRunner().PriceAll(context.Background(), reqs)
	if len(out) != len(reqs) {
		t.Fatalf("response count mismatch: got %d want %d", len(out), len(reqs))
	}

	ltn := out[0]
	if ltn.Error != "" {
		t.Fatalf("ltn error: %s", ltn.Error)
	}
	if ltn.TaskID != "ltn" || ltn.UnitPrice.String() != "892.857142" || ltn.BusinessDays != 252 {
		t.Fatalf("ltn mismatch: %+v", ltn)
	}
	if ltn.AdjustedMaturity != "2026-01-02" || ltn.Quotation != nil {
		t.Fatalf("ltn schedule mismatch: %+v", ltn)
	}
	if ltn.FinancialValue == nil || !ltn.FinancialValue.Equal(decimal.RequireFromString("133928.57")) {
		t.Fatalf("financial value mismatch: %v", ltn.FinancialValue)
	}

	ntnb := out[1]
	if ntnb.Error != "" {
		t.Fatalf("ntnb error: %s", ntnb.Error)
	}
	if ntnb.TaskID == "" {
		t.Fatalf("missing task id should be generated")
	}
	if ntnb.UnitPrice.String() != "4067.223315" || ntnb.Quotation == nil || len(ntnb.Cashflows) != 21 {
		t.Fatalf("ntnb mismatch: %+v", ntnb)
	}

	for i, want := range map[int]string{2: "invalid reference_date", 3: "rate is required", 4: "outside the supported calendar range"} {
		if !strings.Contains(out[i].Error, want) {
			t.Fatalf("response %d error mismatch: got %q want %q", i, out[i].Error, want)
		}
		if out[i].UnitPrice != nil {
			t.Fatalf("response %d should carry no price", i)
		}
	}
}

func TestPriceAll_VNASeries(t *testing.T) {
	t.Parallel()

	reqs := decodePriceRequests(t, `[
		{"task_id": "exact", "kind": "LFT", "reference_date": "2025-01-03", "maturity_date": "2027-03-01", "rate": "0.05",
		 "vna_series": {"2025-01-02": "16120.000000", "2025-01-03": "16123.456789"}},
		{"task_id": "earlier", "kind": "LFT", "reference_date": "2025-01-06", "maturity_date": "2027-03-01", "rate": "0.05",
		 "vna_series": {"2025-01-02": "16120.000000", "2025-01-03": "16123.456789"}},
		{"task_id": "none", "kind": "LFT", "reference_date": "2024-12-30", "maturity_date": "2027-03-01", "rate": "0.05",
		 "vna_series": {"2025-01-02": "16120.000000"}},
		{"task_id": "nominal", "kind": "LTN", "reference_date": "2025-01-03", "maturity_date": "2027-01-01", "rate": "12",
		 "vna_series": {"2025-01-03": "16123.456789"}}
	]`)

	out := newRunner().PriceAll(context.Background(), reqs)
	for _, i := range []int{0, 1} {
		if out[i].Error != "" || out[i].VNA == nil || !out[i].VNA.Equal(decimal.RequireFromString("16123.456789")) {
			t.Fatalf("%s VNA mismatch: %+v", out[i].TaskID, out[i])
		}
	}
	if !strings.Contains(out[2].Error, "no value on or before") {
		t.Fatalf("expected missing VNA error, got %q", out[2].Error)
	}
	if !strings.Contains(out[3].Error, "not index-linked") {
		t.Fatalf("expected nominal series error, got %q", out[3].Error)
	}
}

func TestYieldAll(t *testing.T) {
	t.Parallel()

	var reqs []pricing.YieldRequest
	raw := `[
		{"task_id": "ltn", "kind": "LTN", "reference_date": "2025-01-02", "maturity_date": "2026-01-01", "unit_price": "892.857142"},
		{"task_id": "ntnf", "kind": "NTN-F", "reference_date": "2025-01-02", "maturity_date": "2035-01-01", "unit_price": 839.633004},
		{"task_id": "above-face", "kind": "LTN", "reference_date": "2025-01-02", "maturity_date": "2026-01-01", "unit_price": "1200"},
		{"task_id": "no-price", "kind": "LTN", "reference_date": "2025-01-02", "maturity_date": "2026-01-01"}
	]`
	if err := json.Unmarshal([]byte(raw), &reqs); err != nil {
		t.Fatalf("parse requests: %v", err)
	}

	out := newRunner().YieldAll(context.Background(), reqs)
	if out[0].Error != "" || out[0].Rate.StringFixed(4) != "12.0000" {
		t.Fatalf("ltn yield mismatch: %+v", out[0])
	}
	if out[1].Error != "" || out[1].Rate.String() != "13.1234" || out[1].Iterations == 0 {
		t.Fatalf("ntnf yield mismatch: %+v", out[1])
	}
	if !strings.Contains(out[2].Error, "no sign change") {
		t.Fatalf("expected bracket error, got %q", out[2].Error)
	}
	if out[3].Error != "unit_price is required" {
		t.Fatalf("expected missing price error, got %q", out[3].Error)
	}
}

func TestPriceAll_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reqs := decodePriceRequests(t, `[{"task_id": "a", "kind": "LTN", "reference_date": "2025-01-02", "maturity_date": "2026-01-01", "rate": 12}]`)
	out := newRunner().PriceAll(ctx, reqs)
	if out[0].TaskID != "a" || !strings.Contains(out[0].Error, "context canceled") {
		t.Fatalf("expected cancellation error, got %+v", out[0])
	}
}
