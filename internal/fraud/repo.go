package fraud

import "context"

// Repo defines persistence operations for fraud flags.
type Repo interface {
	Create(ctx context.Context, flag Flag) error
	GetByEntity(ctx context.Context, entityType, entityID string) (Flag, error)
}
