package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// Roller wraps a Source and logger so that every match draw is auditable.
// All draws are logged at debug level with label, options and result.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced by zap.NewNop().
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Weighted returns options[i] chosen with probability weights[i]/sum(weights).
//
// Precondition: len(options) == len(weights); weights satisfy Weighted.
// Postcondition: the draw is logged; returns the chosen option or an error.
func (r *Roller) Weighted(label string, options, weights []int) (int, error) {
	if len(options) != len(weights) {
		return 0, fmt.Errorf("dice: %d options for %d weights", len(options), len(weights))
	}
	idx, err := Weighted(r.src, weights)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("weighted draw",
		zap.String("label", label),
		zap.Ints("options", options),
		zap.Ints("weights", weights),
		zap.Int("result", options[idx]),
	)
	return options[idx], nil
}

// Intn returns a uniform draw in [0, n), or 0 when n <= 0.
//
// Postcondition: the draw is logged.
func (r *Roller) Intn(label string, n int) int {
	v := 0
	if n > 0 {
		v = r.src.Intn(n)
	}
	r.logger.Debug("uniform draw",
		zap.String("label", label),
		zap.Int("n", n),
		zap.Int("result", v),
	)
	return v
}
