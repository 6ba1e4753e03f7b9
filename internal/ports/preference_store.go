package ports

import "context"

// Contract for per-account defaults that influence timing.
type PreferenceStore interface {
	// Return the account's service time in minutes, or nil when unset.
	ServiceTime(ctx context.Context, ownerID string) (*int, error)
}
