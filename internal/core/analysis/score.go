package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

const (
	voteWeight       = 0.5
	countWeight      = 0.3
	countScale       = 1000
	shareWeight      = 0.2
	shareScale       = 100
	projectionFactor = 1.05
)

const ModelEnsemble = "ensemble"

// PartyMeasures is the reduction set Score expects when rows are grouped by party.
var PartyMeasures = []domain.Measure{
	{
		Column:     domain.ColumnVotes,
		Reductions: []domain.Reduction{domain.ReduceSum, domain.ReduceMean, domain.ReduceStd, domain.ReduceCount},
	},
	{
		Column:     domain.ColumnVoteSharePct,
		Reductions: []domain.Reduction{domain.ReduceMean},
	},
}

// Score ranks parties with the weighted ensemble heuristic:
//
//	score = total_votes*0.5 + row_count*1000*0.3 + avg_share*100*0.2
//
// Rows must be grouped by party and carry sum(votes), count(votes) and
// mean(vote_share_pct). The result is ordered by win probability, highest first.
func Score(rows []domain.AggregateRow) ([]domain.PartyAggregate, error) {
	if len(rows) == 0 {
		return nil, &domain.EmptyInputError{Operation: "score"}
	}

	parties := make([]domain.PartyAggregate, 0, len(rows))
	scores := make([]float64, 0, len(rows))
	for _, row := range rows {
		party, ok := row.Group[domain.ColumnParty]
		if !ok {
			return nil, &domain.MissingMetricError{Metric: "party group key"}
		}
		total, err := requireValue(row, domain.ColumnVotes, domain.ReduceSum)
		if err != nil {
			return nil, err
		}
		count, err := requireValue(row, domain.ColumnVotes, domain.ReduceCount)
		if err != nil {
			return nil, err
		}
		avgShare, err := requireValue(row, domain.ColumnVoteSharePct, domain.ReduceMean)
		if err != nil {
			return nil, err
		}
		avgVotes, _ := row.Value(domain.ColumnVotes, domain.ReduceMean)
		stdVotes, _ := row.Value(domain.ColumnVotes, domain.ReduceStd)

		score := total*voteWeight + count*countScale*countWeight + avgShare*shareScale*shareWeight
		scores = append(scores, score)
		parties = append(parties, domain.PartyAggregate{
			Party:          party,
			TotalVotes:     int64(total),
			AvgVotes:       avgVotes,
			StdVotes:       stdVotes,
			RowCount:       int64(count),
			AvgShare:       avgShare,
			Score:          score,
			PredictedVotes: int64(math.Round(total * projectionFactor)),
		})
	}

	probabilities := Percentages(scores)
	for i := range parties {
		parties[i].WinProbability = probabilities[i]
	}

	sort.SliceStable(parties, func(i, j int) bool {
		if parties[i].WinProbability != parties[j].WinProbability {
			return parties[i].WinProbability > parties[j].WinProbability
		}
		return parties[i].Party < parties[j].Party
	})

	return parties, nil
}

// Predict groups derived records by party and scores them.
func Predict(records []domain.VoteRecord) ([]domain.PartyAggregate, error) {
	if len(records) == 0 {
		return nil, &domain.EmptyInputError{Operation: "score"}
	}
	rows, err := Aggregate(records, []string{domain.ColumnParty}, PartyMeasures)
	if err != nil {
		return nil, err
	}
	return Score(rows)
}

// PredictWithModel runs the named model. Only the ensemble heuristic exists;
// any other name is rejected rather than silently falling back to it.
func PredictWithModel(model string, records []domain.VoteRecord) ([]domain.PartyAggregate, error) {
	switch strings.ToLower(strings.TrimSpace(model)) {
	case "", ModelEnsemble:
		return Predict(records)
	}
	return nil, &domain.UnsupportedModelError{Model: model}
}

func requireValue(row domain.AggregateRow, column string, r domain.Reduction) (float64, error) {
	v, ok := row.Value(column, r)
	if !ok {
		return 0, &domain.MissingMetricError{Metric: domain.MetricName(column, r)}
	}
	return v, nil
}
