package config

// Bracket is a closed rate interval in percent per year.
type Bracket struct {
	Lo float64
	Hi float64
}

// Config holds root-finder parameters for yield-from-price inversion.
type Config struct {
	// Accuracy is the price residual below which the solver stops.
	// Prices are quantised to 1e-6, so any non-zero residual is at least one tick.
	Accuracy float64

	// RateTolerance is the bracket width (in percent) below which the solver
	// stops when the target sits between two price ticks.
	RateTolerance float64

	// MaxIterations caps Brent iterations.
	MaxIterations int

	// NominalBracket is searched for LTN and NTN-F.
	NominalBracket Bracket

	// RealBracket is searched for LFT, NTN-B and NTN-C, whose yields can be negative.
	RealBracket Bracket
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Accuracy:       1e-6,
	RateTolerance:  1e-10,
	MaxIterations:  500,
	NominalBracket: Bracket{Lo: 0, Hi: 50},
	RealBracket:    Bracket{Lo: -10, Hi: 50},
}

// OrDefault returns c, or DefaultConfig when c is nil.
func OrDefault(c *Config) Config {
	if c == nil {
		return DefaultConfig
	}
	return *c
}
