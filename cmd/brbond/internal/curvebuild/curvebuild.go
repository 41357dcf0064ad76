// Package curvebuild turns JSON curve requests into interpolated curves.
package curvebuild

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meenmo/brbond/calendar"
	"github.com/meenmo/brbond/curve"
	"github.com/meenmo/brbond/utils"
)

type Request struct {
	TaskID        string          `json:"task_id,omitempty"`
	ReferenceDate string          `json:"reference_date"`
	Method        string          `json:"method,omitempty"`
	MinPoints     *int            `json:"min_points,omitempty"`
	Vertices      []VertexRequest `json:"vertices"`
}

// VertexRequest identifies a vertex either by maturity date or by business days.
type VertexRequest struct {
	Ticker       string  `json:"ticker,omitempty"`
	MaturityDate string  `json:"maturity_date,omitempty"`
	BusinessDays *int    `json:"business_days,omitempty"`
	Rate         float64 `json:"rate"`
}

type Response struct {
	TaskID        string        `json:"task_id,omitempty"`
	ReferenceDate string        `json:"reference_date,omitempty"`
	Method        curve.Method  `json:"method,omitempty"`
	Points        []curve.Point `json:"points,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// Builder applies configured defaults to requests that omit method or density.
type Builder struct {
	Method    curve.Method
	MinPoints int
	Logger    *zap.Logger
}

// Build never returns an error; failures are reported in Response.Error.
func (b *Builder) Build(req Request) Response {
	if req.TaskID == "" {
		req.TaskID = uuid.NewString()
	}
	res, err := b.build(req)
	if err != nil {
		b.Logger.Warn("curve build failed", zap.String("task_id", req.TaskID), zap.Error(err))
		return Response{TaskID: req.TaskID, Error: err.Error()}
	}
	return res
}

func (b *Builder) build(req Request) (Response, error) {
	ref, err := utils.ParseDate(strings.TrimSpace(req.ReferenceDate))
	if err != nil {
		return Response{}, fmt.Errorf("invalid reference_date: %w", err)
	}
	if !calendar.Supports(ref) {
		return Response{}, fmt.Errorf("invalid reference_date: year %d outside the supported calendar range", ref.Year())
	}

	method := b.Method
	if req.Method != "" {
		if method, err = curve.ParseMethod(req.Method); err != nil {
			return Response{}, err
		}
	}
	minPoints := b.MinPoints
	if req.MinPoints != nil {
		minPoints = *req.MinPoints
	}

	vertices := make([]curve.Point, 0, len(req.Vertices))
	for i, v := range req.Vertices {
		p, err := vertex(ref, v)
		if err != nil {
			return Response{}, fmt.Errorf("vertex %d: %w", i, err)
		}
		vertices = append(vertices, p)
	}

	points, err := curve.GenerateInterpolatedCurve(vertices, ref, method, minPoints)
	if err != nil {
		return Response{}, err
	}
	b.Logger.Debug("curve built",
		zap.String("task_id", req.TaskID),
		zap.String("method", string(method)),
		zap.Int("vertices", len(vertices)),
		zap.Int("points", len(points)))

	return Response{
		TaskID:        req.TaskID,
		ReferenceDate: utils.FormatDate(ref),
		Method:        method,
		Points:        points,
	}, nil
}

func vertex(ref time.Time, v VertexRequest) (curve.Point, error) {
	if v.MaturityDate != "" {
		mat, err := utils.ParseDate(strings.TrimSpace(v.MaturityDate))
		if err != nil {
			return curve.Point{}, fmt.Errorf("invalid maturity_date: %w", err)
		}
		if !calendar.Supports(mat) {
			return curve.Point{}, fmt.Errorf("invalid maturity_date: year %d outside the supported calendar range", mat.Year())
		}
		return curve.NewVertex(ref, mat, v.Rate, v.Ticker)
	}
	if v.BusinessDays == nil {
		return curve.Point{}, fmt.Errorf("maturity_date or business_days is required")
	}
	return curve.Point{BusinessDays: *v.BusinessDays, RatePercent: v.Rate, SourceTicker: v.Ticker}, nil
}
