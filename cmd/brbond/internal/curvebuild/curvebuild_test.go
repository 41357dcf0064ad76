package curvebuild_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/meenmo/brbond/cmd/brbond/internal/curvebuild"
	"github.com/meenmo/brbond/curve"
)

func newBuilder() *curvebuild.Builder {
	return &curvebuild.Builder{Method: curve.FlatForward, MinPoints: 5, Logger: zap.NewNop()}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	var req curvebuild.Request
	raw := `{"task_id": "di", "reference_date": "2025-01-02", "vertices": [
		{"ticker": "DI1F26", "business_days": 252, "rate": 11.00},
		{"ticker": "DI1G25", "business_days": 21, "rate": 10.65}
	]}`
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("parse request: %v", err)
	}

	res := newBuilder().Build(req)
	if res.Error != "" {
		t.Fatalf("Build error: %s", res.Error)
	}
	if res.Method != curve.FlatForward || len(res.Points) != 8 {
		t.Fatalf("curve mismatch: method %s, %d points", res.Method, len(res.Points))
	}
	want := curve.Interpolate(135, 21, 252, 10.65, 11.00, curve.FlatForward)
	if p := res.Points[3]; p.BusinessDays != 135 || math.Abs(p.RatePercent-want) > 1e-12 || !p.Interpolated {
		t.Fatalf("point 3 mismatch: %+v", p)
	}

	b, err := json.Marshal(res.Points[0])
	if err != nil {
		t.Fatalf("marshal point: %v", err)
	}
	if !strings.Contains(string(b), `"maturity_date":"2025-01-31"`) {
		t.Fatalf("point JSON mismatch: %s", b)
	}
}

func TestBuild_OverridesAndErrors(t *testing.T) {
	t.Parallel()

	two := 0
	res := newBuilder().Build(curvebuild.Request{
		ReferenceDate: "2025-01-02",
		Method:        "linear",
		MinPoints:     &two,
		Vertices: []curvebuild.VertexRequest{
			{MaturityDate: "2025-02-03", Rate: 10},
			{MaturityDate: "2026-01-02", Rate: 11},
		},
	})
	if res.Error != "" || res.Method != curve.Linear || len(res.Points) != 2 {
		t.Fatalf("override mismatch: %+v", res)
	}
	if res.TaskID == "" {
		t.Fatalf("task id should be generated")
	}

	for name, req := range map[string]curvebuild.Request{
		"bad method":   {ReferenceDate: "2025-01-02", Method: "spline"},
		"bad date":     {ReferenceDate: "02/01/2025"},
		"no locator":   {ReferenceDate: "2025-01-02", Vertices: []curvebuild.VertexRequest{{Rate: 10}}},
		"past vertex":  {ReferenceDate: "2025-01-02", Vertices: []curvebuild.VertexRequest{{MaturityDate: "2024-01-02", Rate: 10}}},
		"duplicate du": {ReferenceDate: "2025-01-02", Vertices: []curvebuild.VertexRequest{{MaturityDate: "2025-02-03", Rate: 10}, {MaturityDate: "2025-02-03", Rate: 11}}},
	} {
		if res := newBuilder().Build(req); res.Error == "" {
			t.Fatalf("%s: expected error", name)
		}
	}
}
