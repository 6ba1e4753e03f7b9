package obs

import "go.uber.org/zap"

// NewLogger builds the process logger: JSON output in production,
// human-readable development output otherwise.
func NewLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
