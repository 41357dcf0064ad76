package bond

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownKind               = errors.New("unknown bond kind")
	ErrMissingDate               = errors.New("reference and maturity dates are required")
	ErrMaturityNotAfterReference = errors.New("maturity date must be after reference date")
	ErrInvalidRate               = errors.New("rate must be greater than -100%")
	ErrInvalidPrice              = errors.New("unit price must be positive")
	ErrMissingVNA                = errors.New("VNA is required and must be positive for index-linked bonds")
	ErrUnexpectedVNA             = errors.New("VNA is only accepted for index-linked bonds")

	// ErrRootNotBracketed means the price function has no sign change inside
	// the search bracket: the market price is inconsistent with any yield in it.
	ErrRootNotBracketed = errors.New("no sign change in yield bracket")
	ErrNoConvergence    = errors.New("yield solver did not converge")
)

// ComputationError reports a yield inversion that failed on otherwise valid
// input, so callers can tell bad market data from bad requests.
type ComputationError struct {
	Kind      Kind
	Reference time.Time
	Maturity  time.Time
	Err       error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s %s -> %s: %v", e.Kind,
		e.Reference.Format("2006-01-02"), e.Maturity.Format("2006-01-02"), e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
