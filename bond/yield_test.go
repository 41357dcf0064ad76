package bond_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/meenmo/brbond/bond"
	"github.com/meenmo/brbond/config"
)

func TestYield_FromFixture(t *testing.T) {
	t.Parallel()

	for _, tc := range loadPriceCases(t) {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			kind, err := bond.ParseKind(tc.Kind)
			if err != nil {
				t.Fatalf("ParseKind: %v", err)
			}
			got, err := bond.Yield(bond.YieldInput{
				Kind:          kind,
				ReferenceDate: mustParse(t, tc.ReferenceDate),
				MaturityDate:  mustParse(t, tc.MaturityDate),
				UnitPrice:     tc.UnitPrice,
				VNA:           tc.VNA,
			})
			if err != nil {
				t.Fatalf("Yield: %v", err)
			}
			if want := tc.Rate.Truncate(4); !got.RatePercent.Equal(want) {
				t.Fatalf("rate mismatch: got %s want %s (iterations %d)", got.RatePercent, want, got.Iterations)
			}
			if !got.UnitPrice.Equal(tc.UnitPrice) {
				t.Fatalf("repriced PU mismatch: got %s want %s", got.UnitPrice, tc.UnitPrice)
			}
			if got.Iterations > config.DefaultConfig.MaxIterations {
				t.Fatalf("iterations out of range: %d", got.Iterations)
			}
		})
	}
}

func TestYield_LTNScenario(t *testing.T) {
	t.Parallel()

	ref, mat := date(2025, 1, 2), date(2026, 1, 1)
	pu, err := bond.PriceFromYield(bond.LTN, ref, mat, decimal.NewFromInt(12), decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
	rate, err := bond.YieldFromPrice(bond.LTN, ref, mat, pu, decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("YieldFromPrice: %v", err)
	}
	if rate.StringFixed(4) != "12.0000" {
		t.Fatalf("rate mismatch: got %s want 12.0000", rate.StringFixed(4))
	}
}

func TestYield_RoundTrip(t *testing.T) {
	t.Parallel()

	vna := decimal.NewNullDecimal(decimal.RequireFromString("4400.123456"))
	lftVNA := decimal.NewNullDecimal(decimal.RequireFromString("16123.456789"))
	cases := []struct {
		kind  bond.Kind
		vna   decimal.NullDecimal
		mat   []int
		rates []string
	}{
		{bond.LTN, decimal.NullDecimal{}, []int{2026, 2028, 2032}, []string{"0.5", "9.87", "14.1234", "31.0001"}},
		{bond.LFT, lftVNA, []int{2027, 2030, 2031}, []string{"-0.2500", "0", "0.0123", "0.1977"}},
		{bond.NTNF, decimal.NullDecimal{}, []int{2027, 2031, 2035}, []string{"10", "12.3456", "15.0101"}},
		{bond.NTNB, vna, []int{2030, 2035, 2045}, []string{"-1.5", "5.4321", "7.7777"}},
		{bond.NTNC, vna, []int{2031, 2035}, []string{"4.25", "6.9999"}},
	}

	ref := date(2025, 1, 2)
	for _, tc := range cases {
		for _, year := range tc.mat {
			mat := date(year, 1, 1)
			switch tc.kind {
			case bond.NTNB:
				mat = date(year, 5, 15)
			case bond.LFT:
				mat = date(year, 3, 1)
			}
			for _, r := range tc.rates {
				rate := decimal.RequireFromString(r)
				pu, err := bond.PriceFromYield(tc.kind, ref, mat, rate, tc.vna)
				if err != nil {
					t.Fatalf("%s %d PriceFromYield(%s): %v", tc.kind, year, r, err)
				}
				got, err := bond.YieldFromPrice(tc.kind, ref, mat, pu, tc.vna)
				if err != nil {
					t.Fatalf("%s %d YieldFromPrice(%s): %v", tc.kind, year, pu, err)
				}
				if !got.Equal(rate.Truncate(4)) {
					t.Fatalf("%s %d round trip mismatch: got %s want %s (PU %s)", tc.kind, year, got, rate, pu)
				}
			}
		}
	}
}

func TestYield_NotBracketed(t *testing.T) {
	t.Parallel()

	ref, mat := date(2025, 1, 2), date(2026, 1, 1)
	_, err := bond.YieldFromPrice(bond.LTN, ref, mat, decimal.NewFromInt(1200), decimal.NullDecimal{})
	if err == nil {
		t.Fatalf("expected error for PU above face")
	}

	var ce *bond.ComputationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ComputationError, got %T: %v", err, err)
	}
	if ce.Kind != bond.LTN || !ce.Reference.Equal(ref) || !ce.Maturity.Equal(mat) {
		t.Fatalf("computation error context mismatch: %+v", ce)
	}
	if !errors.Is(err, bond.ErrRootNotBracketed) {
		t.Fatalf("expected ErrRootNotBracketed, got %v", err)
	}
}

func TestYield_SolverConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig
	cfg.MaxIterations = 1
	_, err := bond.Yield(bond.YieldInput{
		Kind:          bond.NTNF,
		ReferenceDate: date(2025, 1, 2),
		MaturityDate:  date(2035, 1, 1),
		UnitPrice:     decimal.RequireFromString("839.633004"),
		Solver:        &cfg,
	})
	if !errors.Is(err, bond.ErrNoConvergence) {
		t.Fatalf("expected ErrNoConvergence, got %v", err)
	}

	// A wider nominal bracket admits negative nominal yields.
	wide := config.DefaultConfig
	wide.NominalBracket = config.Bracket{Lo: -5, Hi: 50}
	pu, err := bond.PriceFromYield(bond.LTN, date(2025, 1, 2), date(2027, 1, 1), decimal.NewFromInt(-1), decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
	got, err := bond.Yield(bond.YieldInput{
		Kind:          bond.LTN,
		ReferenceDate: date(2025, 1, 2),
		MaturityDate:  date(2027, 1, 1),
		UnitPrice:     pu,
		Solver:        &wide,
	})
	if err != nil {
		t.Fatalf("Yield: %v", err)
	}
	if !got.RatePercent.Equal(decimal.NewFromInt(-1)) {
		t.Fatalf("rate mismatch: got %s want -1", got.RatePercent)
	}
}

func TestYield_InvalidInput(t *testing.T) {
	t.Parallel()

	ref, mat := date(2025, 1, 2), date(2026, 1, 1)
	if _, err := bond.YieldFromPrice(bond.LTN, ref, mat, decimal.Zero, decimal.NullDecimal{}); !errors.Is(err, bond.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if _, err := bond.YieldFromPrice(bond.LFT, ref, mat, decimal.NewFromInt(100), decimal.NullDecimal{}); !errors.Is(err, bond.ErrMissingVNA) {
		t.Fatalf("expected ErrMissingVNA, got %v", err)
	}
	var ce *bond.ComputationError
	if _, err := bond.YieldFromPrice(bond.LTN, mat, ref, decimal.NewFromInt(900), decimal.NullDecimal{}); errors.As(err, &ce) || !errors.Is(err, bond.ErrMaturityNotAfterReference) {
		t.Fatalf("expected plain ErrMaturityNotAfterReference, got %v", err)
	}
}
