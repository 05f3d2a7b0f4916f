package competition

import "context"

// Repository describes competition lookups needed by the draw core.
type Repository interface {
	GetByID(ctx context.Context, competitionID string) (Competition, bool, error)
}
