package curve

import (
	"fmt"
	"math"
	"strings"

	"github.com/meenmo/brbond/utils"
)

// Method selects how rates between two vertices are filled.
type Method string

const (
	// Linear interpolates rates on a straight line in business days.
	Linear Method = "LINEAR"
	// FlatForward holds the forward rate constant between vertices by
	// interpolating 252-day compounding factors geometrically.
	FlatForward Method = "FLAT_FORWARD"
)

// ParseMethod accepts "linear", "flat-forward", "flat_forward" or "flatforward".
func ParseMethod(value string) (Method, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "", "_", "", " ", "").Replace(v)
	switch v {
	case "LINEAR":
		return Linear, nil
	case "FLATFORWARD":
		return FlatForward, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, value)
	}
}

// Interpolate returns the rate (percent) at du between the vertices
// (duLo, rateLo) and (duHi, rateHi). Outside [duLo, duHi] the nearest vertex
// rate is returned; when duLo == duHi the result is rateLo.
func Interpolate(du, duLo, duHi int, rateLo, rateHi float64, method Method) float64 {
	if duLo == duHi {
		return rateLo
	}
	if duLo > duHi {
		duLo, duHi = duHi, duLo
		rateLo, rateHi = rateHi, rateLo
	}
	if du <= duLo {
		return rateLo
	}
	if du >= duHi {
		return rateHi
	}

	w := float64(du-duLo) / float64(duHi-duLo)
	switch method {
	case FlatForward:
		return flatForward(du, duLo, duHi, rateLo, rateHi, w)
	default:
		return rateLo + (rateHi-rateLo)*w
	}
}

// flatForward requires duLo < du < duHi, so du is strictly positive.
//
//	F(d)  = (1 + r_d)^(d/252)
//	F(du) = F(lo) × (F(hi)/F(lo))^w
//	r     = F(du)^(252/du) − 1
func flatForward(du, duLo, duHi int, rateLo, rateHi, w float64) float64 {
	year := float64(utils.BusinessDaysPerYear)
	fLo := math.Pow(1+rateLo/100, float64(duLo)/year)
	fHi := math.Pow(1+rateHi/100, float64(duHi)/year)
	f := fLo * math.Pow(fHi/fLo, w)
	return (math.Pow(f, year/float64(du)) - 1) * 100
}
