package domain

import "fmt"

type Reduction string

const (
	ReduceSum    Reduction = "sum"
	ReduceMean   Reduction = "mean"
	ReduceMedian Reduction = "median"
	ReduceStd    Reduction = "std"
	ReduceCount  Reduction = "count"
	ReduceMin    Reduction = "min"
	ReduceMax    Reduction = "max"
)

func (r Reduction) Valid() bool {
	switch r {
	case ReduceSum, ReduceMean, ReduceMedian, ReduceStd, ReduceCount, ReduceMin, ReduceMax:
		return true
	}
	return false
}

// Measure asks for one or more reductions over a numeric column.
type Measure struct {
	Column     string      `json:"column"`
	Reductions []Reduction `json:"reductions"`
}

// MetricName is the key under which a reduced value is stored in an AggregateRow.
func MetricName(column string, reduction Reduction) string {
	return fmt.Sprintf("%s_%s", column, reduction)
}

type AggregateRow struct {
	Group  map[string]string  `json:"group"`
	Values map[string]float64 `json:"values"`
}

func (r AggregateRow) Value(column string, reduction Reduction) (float64, bool) {
	v, ok := r.Values[MetricName(column, reduction)]
	return v, ok
}

type PivotRow struct {
	Key   string    `json:"key"`
	Cells []float64 `json:"cells"`
}

// PivotTable cross-tabulates Index against Columns; Rows[i].Cells[j] belongs
// to ColumnKeys[j].
type PivotTable struct {
	Index      string     `json:"index"`
	Columns    string     `json:"columns"`
	Value      string     `json:"value"`
	ColumnKeys []string   `json:"column_keys"`
	Rows       []PivotRow `json:"rows"`
}

func (p PivotTable) Cell(rowKey, columnKey string) (float64, bool) {
	col := -1
	for j, k := range p.ColumnKeys {
		if k == columnKey {
			col = j
			break
		}
	}
	if col < 0 {
		return 0, false
	}
	for _, row := range p.Rows {
		if row.Key == rowKey {
			return row.Cells[col], true
		}
	}
	return 0, false
}

type PartyAggregate struct {
	Party          string  `json:"party"`
	TotalVotes     int64   `json:"total_votes"`
	AvgVotes       float64 `json:"avg_votes"`
	StdVotes       float64 `json:"std_votes"`
	RowCount       int64   `json:"row_count"`
	AvgShare       float64 `json:"avg_share"`
	Score          float64 `json:"score"`
	WinProbability float64 `json:"win_probability"`
	PredictedVotes int64   `json:"predicted_votes"`
}
