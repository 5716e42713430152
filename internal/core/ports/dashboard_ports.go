package ports

import (
	"context"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

type VotingInput struct {
	Region string
	Party  string
}

type AggregateInput struct {
	GroupKeys []string
	Measures  []domain.Measure
	Filter    VotingInput
}

type PivotInput struct {
	Index   string
	Columns string
	Value   string
	Filter  VotingInput
}

type DashboardService interface {
	Overview(ctx context.Context, session *domain.Session) (*domain.Overview, error)
	Voting(ctx context.Context, session *domain.Session, input VotingInput) (*domain.VotingView, error)
	Counting(ctx context.Context, session *domain.Session) (*domain.CountingView, error)
	Prediction(ctx context.Context, session *domain.Session, model string) (*domain.Prediction, error)
	VoteShare(ctx context.Context, session *domain.Session) (*domain.VoteShareView, error)
	RegionalComparison(ctx context.Context, session *domain.Session, regions []string) (*domain.RegionalView, error)
	Aggregate(ctx context.Context, session *domain.Session, input AggregateInput) ([]domain.AggregateRow, error)
	Pivot(ctx context.Context, session *domain.Session, input PivotInput) (*domain.PivotTable, error)
	Records(ctx context.Context, session *domain.Session, input VotingInput) ([]domain.VoteRecord, error)
}
