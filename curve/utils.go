package curve

import "sort"

// findBracketOrBoundary finds two adjacent points that bracket du.
// If du is outside the range, returns the nearest boundary pair.
func findBracketOrBoundary(points []Point, du int) (lo, hi Point) {
	if len(points) < 2 {
		panic("findBracketOrBoundary: need at least 2 points")
	}

	// Binary search for first point with BusinessDays >= du
	idx := sort.Search(len(points), func(i int) bool {
		return points[i].BusinessDays >= du
	})

	if idx <= 0 {
		return points[0], points[1]
	}
	if idx >= len(points) {
		return points[len(points)-2], points[len(points)-1]
	}

	// dates[idx-1] < du <= dates[idx]
	return points[idx-1], points[idx]
}

// sortedVertices returns a copy of vertices ordered by business days,
// rejecting negative or repeated du.
func sortedVertices(vertices []Point) ([]Point, error) {
	out := make([]Point, len(vertices))
	copy(out, vertices)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BusinessDays < out[j].BusinessDays
	})
	for i, p := range out {
		if p.BusinessDays < 0 {
			return nil, ErrNegativeBusinessDays
		}
		if i > 0 && p.BusinessDays == out[i-1].BusinessDays {
			return nil, ErrDuplicateVertex
		}
	}
	return out, nil
}
