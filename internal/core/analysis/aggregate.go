package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

const keySep = "\x1f"

type bucket struct {
	key    []string
	values map[string][]float64
}

// Aggregate groups records by groupKeys and reduces each measure per group.
// Rows come back sorted by key; an empty groupKeys yields a single row.
func Aggregate(records []domain.VoteRecord, groupKeys []string, measures []domain.Measure) ([]domain.AggregateRow, error) {
	if len(records) == 0 {
		return nil, &domain.EmptyInputError{Operation: "aggregate"}
	}
	if err := validateAggregation(groupKeys, measures); err != nil {
		return nil, err
	}

	columns := measureColumns(measures)
	buckets := make(map[string]*bucket)
	var order []*bucket
	for _, rec := range records {
		key := make([]string, len(groupKeys))
		for i, k := range groupKeys {
			key[i], _ = rec.Dimension(k)
		}
		id := strings.Join(key, keySep)
		b, ok := buckets[id]
		if !ok {
			b = &bucket{key: key, values: make(map[string][]float64)}
			buckets[id] = b
			order = append(order, b)
		}
		for _, col := range columns {
			v, _ := rec.Measure(col)
			b.values[col] = append(b.values[col], v)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return lessKey(groupKeys, order[i].key, order[j].key)
	})

	rows := make([]domain.AggregateRow, 0, len(order))
	for _, b := range order {
		row := domain.AggregateRow{
			Group:  make(map[string]string, len(groupKeys)),
			Values: make(map[string]float64),
		}
		for i, k := range groupKeys {
			row.Group[k] = b.key[i]
		}
		for _, m := range measures {
			for _, r := range m.Reductions {
				row.Values[domain.MetricName(m.Column, r)] = reduce(b.values[m.Column], r)
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// measureColumns returns each measured column once, in first-seen order.
func measureColumns(measures []domain.Measure) []string {
	seen := make(map[string]struct{}, len(measures))
	columns := make([]string, 0, len(measures))
	for _, m := range measures {
		if _, ok := seen[m.Column]; ok {
			continue
		}
		seen[m.Column] = struct{}{}
		columns = append(columns, m.Column)
	}
	return columns
}

// Pivot cross-tabulates the sum of value with index values as rows and
// columns values as columns. Missing combinations are 0.
func Pivot(records []domain.VoteRecord, index, columns, value string) (domain.PivotTable, error) {
	if len(records) == 0 {
		return domain.PivotTable{}, &domain.EmptyInputError{Operation: "pivot"}
	}
	for _, k := range []string{index, columns} {
		if !domain.IsDimension(k) {
			return domain.PivotTable{}, &domain.UnknownGroupKeyError{Key: k}
		}
	}
	if !domain.IsMeasure(value) {
		return domain.PivotTable{}, &domain.UnknownColumnError{Column: value}
	}

	sums := make(map[string]map[string]float64)
	colSeen := make(map[string]struct{})
	var rowKeys, colKeys []string
	for _, rec := range records {
		rk, _ := rec.Dimension(index)
		ck, _ := rec.Dimension(columns)
		v, _ := rec.Measure(value)
		if _, ok := sums[rk]; !ok {
			sums[rk] = make(map[string]float64)
			rowKeys = append(rowKeys, rk)
		}
		if _, ok := colSeen[ck]; !ok {
			colSeen[ck] = struct{}{}
			colKeys = append(colKeys, ck)
		}
		sums[rk][ck] += v
	}

	sortValues(index, rowKeys)
	sortValues(columns, colKeys)

	table := domain.PivotTable{
		Index:      index,
		Columns:    columns,
		Value:      value,
		ColumnKeys: colKeys,
		Rows:       make([]domain.PivotRow, 0, len(rowKeys)),
	}
	for _, rk := range rowKeys {
		cells := make([]float64, len(colKeys))
		for j, ck := range colKeys {
			cells[j] = sums[rk][ck]
		}
		table.Rows = append(table.Rows, domain.PivotRow{Key: rk, Cells: cells})
	}

	return table, nil
}

func validateAggregation(groupKeys []string, measures []domain.Measure) error {
	for _, k := range groupKeys {
		if !domain.IsDimension(k) {
			return &domain.UnknownGroupKeyError{Key: k}
		}
	}
	if len(measures) == 0 {
		return fmt.Errorf("%w: at least one measure is required", domain.ErrMissingMetric)
	}
	for _, m := range measures {
		if !domain.IsMeasure(m.Column) {
			return &domain.UnknownColumnError{Column: m.Column}
		}
		if len(m.Reductions) == 0 {
			return fmt.Errorf("%w: no reductions for %s", domain.ErrMissingMetric, m.Column)
		}
		for _, r := range m.Reductions {
			if !r.Valid() {
				return &domain.UnknownReductionError{Reduction: string(r)}
			}
		}
	}
	return nil
}

func lessKey(columns []string, a, b []string) bool {
	for i, col := range columns {
		if a[i] == b[i] {
			continue
		}
		return lessValue(col, a[i], b[i])
	}
	return false
}

func lessValue(column, a, b string) bool {
	if domain.IsNumericDimension(column) {
		x, errA := strconv.Atoi(a)
		y, errB := strconv.Atoi(b)
		if errA == nil && errB == nil {
			return x < y
		}
	}
	return a < b
}

func sortValues(column string, values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		return lessValue(column, values[i], values[j])
	})
}
