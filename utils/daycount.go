package utils

// BusinessDaysPerYear is the Brazilian business-year basis (du/252).
const BusinessDaysPerYear = 252

// BusinessYearFraction converts a business-day count into years on the 252 basis.
func BusinessYearFraction(du int) float64 {
	return float64(du) / BusinessDaysPerYear
}
