package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

// DatasetService hands out derived record sets. Each call returns a copy the
// caller owns.
type DatasetService interface {
	Load(ctx context.Context, seed int64) ([]domain.VoteRecord, error)
}

// PipelineObserver records how long each pipeline operation took.
type PipelineObserver interface {
	ObserveOperation(operation string, elapsed time.Duration, err error)
}
