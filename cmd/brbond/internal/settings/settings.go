// Package settings loads CLI configuration from defaults, an optional YAML
// file and BRBOND_* environment variables, and builds the zap logger.
package settings

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meenmo/brbond/config"
	"github.com/meenmo/brbond/curve"
)

// EnvPrefix prefixes every environment override, e.g. BRBOND_SOLVER_ACCURACY.
const EnvPrefix = "BRBOND"

type Settings struct {
	LogLevel  string         `mapstructure:"log_level"`
	LogFormat string         `mapstructure:"log_format"` // "console" or "json"
	Workers   int            `mapstructure:"workers"`
	Curve     CurveSettings  `mapstructure:"curve"`
	Solver    SolverSettings `mapstructure:"solver"`
}

type CurveSettings struct {
	Method    string `mapstructure:"method"`
	MinPoints int    `mapstructure:"min_points"`
}

type SolverSettings struct {
	Accuracy      float64 `mapstructure:"accuracy"`
	RateTolerance float64 `mapstructure:"rate_tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
	NominalLo     float64 `mapstructure:"nominal_lo"`
	NominalHi     float64 `mapstructure:"nominal_hi"`
	RealLo        float64 `mapstructure:"real_lo"`
	RealHi        float64 `mapstructure:"real_hi"`
}

// Load reads defaults, then path (when non-empty), then the environment.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("workers", runtime.NumCPU())

	v.SetDefault("curve.method", string(curve.FlatForward))
	v.SetDefault("curve.min_points", curve.DefaultMinPointsPerSegment)

	d := config.DefaultConfig
	v.SetDefault("solver.accuracy", d.Accuracy)
	v.SetDefault("solver.rate_tolerance", d.RateTolerance)
	v.SetDefault("solver.max_iterations", d.MaxIterations)
	v.SetDefault("solver.nominal_lo", d.NominalBracket.Lo)
	v.SetDefault("solver.nominal_hi", d.NominalBracket.Hi)
	v.SetDefault("solver.real_lo", d.RealBracket.Lo)
	v.SetDefault("solver.real_hi", d.RealBracket.Hi)
}

func (s *Settings) validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if _, err := curve.ParseMethod(s.Curve.Method); err != nil {
		return fmt.Errorf("curve.method: %w", err)
	}
	if s.Curve.MinPoints < 0 {
		return fmt.Errorf("curve.min_points must be non-negative, got %d", s.Curve.MinPoints)
	}
	if s.Solver.Accuracy <= 0 || s.Solver.MaxIterations < 1 {
		return fmt.Errorf("solver accuracy and max_iterations must be positive")
	}
	if s.Solver.NominalLo >= s.Solver.NominalHi || s.Solver.RealLo >= s.Solver.RealHi {
		return fmt.Errorf("solver brackets must satisfy lo < hi")
	}
	if s.Solver.NominalLo <= -100 || s.Solver.RealLo <= -100 {
		return fmt.Errorf("solver brackets must stay above -100%%")
	}
	return nil
}

// SolverConfig maps the solver section onto the library config.
func (s *Settings) SolverConfig() config.Config {
	return config.Config{
		Accuracy:       s.Solver.Accuracy,
		RateTolerance:  s.Solver.RateTolerance,
		MaxIterations:  s.Solver.MaxIterations,
		NominalBracket: config.Bracket{Lo: s.Solver.NominalLo, Hi: s.Solver.NominalHi},
		RealBracket:    config.Bracket{Lo: s.Solver.RealLo, Hi: s.Solver.RealHi},
	}
}

// CurveMethod returns the configured default interpolation method.
func (s *Settings) CurveMethod() curve.Method {
	m, _ := curve.ParseMethod(s.Curve.Method)
	return m
}

// NewLogger builds a zap logger writing to w at the configured level.
func (s *Settings) NewLogger(w io.Writer) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(s.LogFormat) {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return nil, fmt.Errorf("log_format: unsupported %q", s.LogFormat)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core), nil
}
