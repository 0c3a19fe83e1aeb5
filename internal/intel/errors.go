package intel

import "errors"

var (
	// ErrInvalidWeights means the configured weight vector does not describe a
	// valid composite score. Fatal at startup, never mid-run.
	ErrInvalidWeights = errors.New("invalid match weights")
	// ErrInsufficientData marks entities below the minimum history required to
	// score them. Callers skip these silently.
	ErrInsufficientData = errors.New("insufficient data")
)
