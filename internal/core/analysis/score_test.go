package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

func partyRow(party string, total, count, avgShare float64) domain.AggregateRow {
	return domain.AggregateRow{
		Group: map[string]string{domain.ColumnParty: party},
		Values: map[string]float64{
			"votes_sum":           total,
			"votes_count":         count,
			"vote_share_pct_mean": avgShare,
		},
	}
}

func TestScoreFormula(t *testing.T) {
	rows := []domain.AggregateRow{
		partyRow("Party B", 1000, 2, 40),
		partyRow("Party A", 3000, 2, 60),
	}

	got, err := Score(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)

	winner := got[0]
	assert.Equal(t, "Party A", winner.Party)
	// 3000*0.5 + 2*1000*0.3 + 60*100*0.2
	assert.Equal(t, 3300.0, winner.Score)
	// 1000*0.5 + 600 + 800
	assert.Equal(t, 1900.0, got[1].Score)
	// 3300/5200*100 = 63.4615..., 1900/5200*100 = 36.5384...
	assert.Equal(t, 63.46, winner.WinProbability)
	assert.Equal(t, 36.54, got[1].WinProbability)
	assert.Equal(t, int64(3150), winner.PredictedVotes)
	assert.Equal(t, int64(1050), got[1].PredictedVotes)
	assert.Equal(t, int64(2), winner.RowCount)
}

func TestScoreProbabilitiesSumToHundred(t *testing.T) {
	records, err := Synthesize(42)
	require.NoError(t, err)

	got, err := Predict(Derive(records))
	require.NoError(t, err)
	require.Len(t, got, len(DefaultSynthesisParams().Parties))

	var sum float64
	for i, p := range got {
		sum += p.WinProbability
		assert.GreaterOrEqual(t, p.WinProbability, 0.0)
		assert.Equal(t, int64(math.Round(float64(p.TotalVotes)*1.05)), p.PredictedVotes)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].WinProbability, p.WinProbability)
		}
	}
	assert.InDelta(t, 100.0, sum, 0.005*float64(len(got)))
	assert.Equal(t, "Party A", got[0].Party)
}

func TestScoreWinProbabilityRoundsEachParty(t *testing.T) {
	// equal scores: each share is 33.333..., rounded on its own
	rows := []domain.AggregateRow{
		partyRow("Party A", 1000, 1, 10),
		partyRow("Party B", 1000, 1, 10),
		partyRow("Party C", 1000, 1, 10),
	}

	got, err := Score(rows)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for _, p := range got {
		assert.Equal(t, 33.33, p.WinProbability)
	}
	assert.Equal(t, []string{"Party A", "Party B", "Party C"}, []string{got[0].Party, got[1].Party, got[2].Party})
}

func TestScoreWinProbabilityMatchesFormulaOnSeed(t *testing.T) {
	records, err := Synthesize(42)
	require.NoError(t, err)

	got, err := Predict(Derive(records))
	require.NoError(t, err)

	var total float64
	for _, p := range got {
		total += p.Score
	}
	for _, p := range got {
		assert.Equal(t, math.Round(p.Score/total*100*100)/100, p.WinProbability, p.Party)
	}
}

func TestScoreEmptyInput(t *testing.T) {
	got, err := Score(nil)
	assert.Nil(t, got)
	var emptyErr *domain.EmptyInputError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "score", emptyErr.Operation)

	got, err = Predict(nil)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestScoreZeroScores(t *testing.T) {
	got, err := Score([]domain.AggregateRow{partyRow("A", 0, 0, 0), partyRow("B", 0, 0, 0)})
	require.NoError(t, err)
	for _, p := range got {
		assert.Equal(t, 0.0, p.WinProbability)
	}
	assert.Equal(t, "A", got[0].Party)
}

func TestScoreMissingMetric(t *testing.T) {
	row := partyRow("A", 10, 1, 50)
	delete(row.Values, "vote_share_pct_mean")

	_, err := Score([]domain.AggregateRow{row})
	var metricErr *domain.MissingMetricError
	require.ErrorAs(t, err, &metricErr)
	assert.Equal(t, "vote_share_pct_mean", metricErr.Metric)

	_, err = Score([]domain.AggregateRow{{Values: map[string]float64{}}})
	assert.ErrorIs(t, err, domain.ErrMissingMetric)
}

func TestPredictWithModel(t *testing.T) {
	records := Derive([]domain.VoteRecord{
		record("North", 1, "A", 30),
		record("North", 1, "B", 20),
	})

	got, err := PredictWithModel("Ensemble", records)
	require.NoError(t, err)
	assert.Equal(t, "A", got[0].Party)

	_, err = PredictWithModel("", records)
	assert.NoError(t, err)

	for _, model := range []string{"linear_regression", "random_forest", "bayesian"} {
		_, err := PredictWithModel(model, records)
		assert.ErrorIs(t, err, domain.ErrUnsupportedModel, model)
	}
}
