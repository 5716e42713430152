package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/vncsmyrnk/election/internal/core/analysis"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const (
	topConstituencies     = 10
	defaultComparedRegion = 3
	allValues             = "all"
)

type dashboardService struct {
	observer ports.PipelineObserver
	clock    ports.Clock
}

func NewDashboardService(observer ports.PipelineObserver, clock ports.Clock) ports.DashboardService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &dashboardService{
		observer: observer,
		clock:    clock,
	}
}

func (s *dashboardService) Overview(ctx context.Context, session *domain.Session) (*domain.Overview, error) {
	records, err := sessionRecords(ctx, session)
	if err != nil {
		return nil, err
	}

	byParty, err := s.sumBy(records, domain.ColumnParty, domain.ColumnVotes)
	if err != nil {
		return nil, err
	}
	byRegion, err := s.sumBy(records, domain.ColumnRegion, domain.ColumnVotes)
	if err != nil {
		return nil, err
	}

	var totalVotes, electorate int64
	voters := make(map[string]int64)
	for _, r := range records {
		totalVotes += r.Votes
		if _, ok := voters[r.ConstituencyName]; !ok {
			voters[r.ConstituencyName] = r.TotalVoters
			electorate += r.TotalVoters
		}
	}

	overview := &domain.Overview{
		TotalVotes:     totalVotes,
		Constituencies: len(voters),
		VotesByParty:   byParty,
		VotesByRegion:  byRegion,
		LeadingParty:   leader(byParty),
	}
	if electorate > 0 {
		overview.TurnoutPct = roundTo(float64(totalVotes)/float64(electorate)*100, 1)
	}
	return overview, nil
}

func (s *dashboardService) Voting(ctx context.Context, session *domain.Session, input ports.VotingInput) (*domain.VotingView, error) {
	records, err := sessionRecords(ctx, session)
	if err != nil {
		return nil, err
	}

	filtered := votingFilter(input).Apply(records)
	view := &domain.VotingView{
		Region:            normalizeChoice(input.Region),
		Party:             normalizeChoice(input.Party),
		VotesByParty:      []domain.Series{},
		TopConstituencies: []domain.Series{},
		Records:           filtered,
	}
	if len(filtered) == 0 {
		return view, nil
	}

	if view.VotesByParty, err = s.sumBy(filtered, domain.ColumnParty, domain.ColumnVotes); err != nil {
		return nil, err
	}
	byConstituency, err := s.sumBy(filtered, domain.ColumnConstituencyName, domain.ColumnVotes)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(byConstituency, func(i, j int) bool {
		return byConstituency[i].Value > byConstituency[j].Value
	})
	if len(byConstituency) > topConstituencies {
		byConstituency = byConstituency[:topConstituencies]
	}
	view.TopConstituencies = byConstituency
	return view, nil
}

func (s *dashboardService) Counting(ctx context.Context, session *domain.Session) (*domain.CountingView, error) {
	records, err := sessionRecords(ctx, session)
	if err != nil {
		return nil, err
	}

	view := &domain.CountingView{Records: records}
	for _, r := range records {
		switch r.CountingStatus {
		case domain.StatusComplete:
			view.Complete++
		case domain.StatusInProgress:
			view.InProgress++
		case domain.StatusPending:
			view.Pending++
		}
	}

	rows, err := s.aggregate(records, []string{domain.ColumnRegion, domain.ColumnCountingStatus}, []domain.Measure{
		{Column: domain.ColumnVotes, Reductions: []domain.Reduction{domain.ReduceCount}},
	})
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		count, _ := row.Value(domain.ColumnVotes, domain.ReduceCount)
		view.ProgressByRegion = append(view.ProgressByRegion, domain.StatusCount{
			Region: row.Group[domain.ColumnRegion],
			Status: domain.CountingStatus(row.Group[domain.ColumnCountingStatus]),
			Count:  int64(count),
		})
	}

	if view.CountedVotesByParty, err = s.sumBy(records, domain.ColumnParty, domain.ColumnCountedVotes); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *dashboardService) Prediction(ctx context.Context, session *domain.Session, model string) (*domain.Prediction, error) {
	records, err := sessionRecords(ctx, session)
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	parties, err := analysis.PredictWithModel(model, records)
	observe(s.observer, "score", s.clock.Now().Sub(start), err)
	if err != nil {
		return nil, err
	}

	return &domain.Prediction{
		Model:   analysis.ModelEnsemble,
		Winner:  parties[0],
		Parties: parties,
	}, nil
}

func (s *dashboardService) VoteShare(ctx context.Context, session *domain.Session) (*domain.VoteShareView, error) {
	records, err := sessionRecords(ctx, session)
	if err != nil {
		return nil, err
	}

	rows, err := s.aggregate(records, []string{domain.ColumnParty}, []domain.Measure{{
		Column: domain.ColumnVotes,
		Reductions: []domain.Reduction{
			domain.ReduceSum, domain.ReduceMean, domain.ReduceMedian,
			domain.ReduceStd, domain.ReduceMin, domain.ReduceMax,
		},
	}})
	if err != nil {
		return nil, err
	}

	totals := make([]float64, len(rows))
	for i, row := range rows {
		totals[i], _ = row.Value(domain.ColumnVotes, domain.ReduceSum)
	}
	shares := analysis.Percentages(totals)

	view := &domain.VoteShareView{Parties: make([]domain.PartyVoteStats, 0, len(rows))}
	for i, row := range rows {
		v := row.Values
		view.Parties = append(view.Parties, domain.PartyVoteStats{
			Party:      row.Group[domain.ColumnParty],
			TotalVotes: totals[i],
			Mean:       v[domain.MetricName(domain.ColumnVotes, domain.ReduceMean)],
			Median:     v[domain.MetricName(domain.ColumnVotes, domain.ReduceMedian)],
			StdDev:     v[domain.MetricName(domain.ColumnVotes, domain.ReduceStd)],
			Min:        v[domain.MetricName(domain.ColumnVotes, domain.ReduceMin)],
			Max:        v[domain.MetricName(domain.ColumnVotes, domain.ReduceMax)],
			SharePct:   shares[i],
		})
	}
	return view, nil
}

func (s *dashboardService) RegionalComparison(ctx context.Context, session *domain.Session, regions []string) (*domain.RegionalView, error) {
	records, err := sessionRecords(ctx, session)
	if err != nil {
		return nil, err
	}

	if len(regions) == 0 {
		all, err := analysis.Distinct(records, domain.ColumnRegion)
		if err != nil {
			return nil, err
		}
		if len(all) > defaultComparedRegion {
			all = all[:defaultComparedRegion]
		}
		regions = all
	}

	filtered := analysis.Filter{Regions: regions}.Apply(records)
	rows, err := s.aggregate(filtered, []string{domain.ColumnRegion, domain.ColumnParty}, []domain.Measure{
		{Column: domain.ColumnVotes, Reductions: []domain.Reduction{domain.ReduceSum}},
	})
	if err != nil {
		return nil, err
	}

	view := &domain.RegionalView{Regions: regions}
	for _, row := range rows {
		votes, _ := row.Value(domain.ColumnVotes, domain.ReduceSum)
		view.ByRegionParty = append(view.ByRegionParty, domain.RegionPartyVotes{
			Region: row.Group[domain.ColumnRegion],
			Party:  row.Group[domain.ColumnParty],
			Votes:  votes,
		})
	}

	if view.RegionTotals, err = s.sumBy(filtered, domain.ColumnRegion, domain.ColumnVotes); err != nil {
		return nil, err
	}

	table, err := analysis.Pivot(filtered, domain.ColumnRegion, domain.ColumnParty, domain.ColumnVotes)
	if err != nil {
		return nil, err
	}
	view.Comparison = table
	return view, nil
}

func (s *dashboardService) Aggregate(ctx context.Context, session *domain.Session, input ports.AggregateInput) ([]domain.AggregateRow, error) {
	records, err := sessionRecords(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.aggregate(votingFilter(input.Filter).Apply(records), input.GroupKeys, input.Measures)
}

func (s *dashboardService) Pivot(ctx context.Context, session *domain.Session, input ports.PivotInput) (*domain.PivotTable, error) {
	records, err := sessionRecords(ctx, session)
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	table, err := analysis.Pivot(votingFilter(input.Filter).Apply(records), input.Index, input.Columns, input.Value)
	observe(s.observer, "pivot", s.clock.Now().Sub(start), err)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *dashboardService) Records(ctx context.Context, session *domain.Session, input ports.VotingInput) ([]domain.VoteRecord, error) {
	records, err := sessionRecords(ctx, session)
	if err != nil {
		return nil, err
	}
	return votingFilter(input).Apply(records), nil
}

func (s *dashboardService) aggregate(records []domain.VoteRecord, groupKeys []string, measures []domain.Measure) ([]domain.AggregateRow, error) {
	start := s.clock.Now()
	rows, err := analysis.Aggregate(records, groupKeys, measures)
	observe(s.observer, "aggregate", s.clock.Now().Sub(start), err)
	return rows, err
}

func (s *dashboardService) sumBy(records []domain.VoteRecord, key, column string) ([]domain.Series, error) {
	rows, err := s.aggregate(records, []string{key}, []domain.Measure{
		{Column: column, Reductions: []domain.Reduction{domain.ReduceSum}},
	})
	if err != nil {
		return nil, err
	}
	series := make([]domain.Series, 0, len(rows))
	for _, row := range rows {
		v, _ := row.Value(column, domain.ReduceSum)
		series = append(series, domain.Series{Label: row.Group[key], Value: v})
	}
	return series, nil
}

func sessionRecords(ctx context.Context, session *domain.Session) ([]domain.VoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session.Records, nil
}

func votingFilter(input ports.VotingInput) analysis.Filter {
	f := analysis.Filter{Party: normalizeChoice(input.Party)}
	if region := normalizeChoice(input.Region); region != "" {
		f.Regions = []string{region}
	}
	return f
}

// normalizeChoice maps the UI's "All" selection to no filter.
func normalizeChoice(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, allValues) {
		return ""
	}
	return v
}

func leader(series []domain.Series) string {
	best := -1
	for i, s := range series {
		if best < 0 || s.Value > series[best].Value {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return series[best].Label
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
