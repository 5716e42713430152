package http

import (
	"net/http"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

// AnalysisHandler exposes the generic aggregate and pivot operations.
type AnalysisHandler struct {
	service ports.DashboardService
}

func NewAnalysisHandler(service ports.DashboardService) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
	}
}

type aggregateQuery struct {
	Group   []string `validate:"required,min=1,dive,required"`
	Columns []string `validate:"required,min=1,dive,required"`
	Reduce  []string `validate:"required,min=1,dive,required"`
}

type pivotQuery struct {
	Index   string `validate:"required"`
	Columns string `validate:"required"`
	Value   string `validate:"required"`
}

// Aggregate groups the session records by every `group` column and applies
// each `reduce` to each `column`. Region and party filters are optional.
func (h *AnalysisHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	query := aggregateQuery{
		Group:   queryList(r, "group"),
		Columns: queryList(r, "column"),
		Reduce:  queryList(r, "reduce"),
	}
	if err := validate.Struct(query); err != nil {
		writeValidationError(w, err)
		return
	}

	reductions := make([]domain.Reduction, len(query.Reduce))
	for i, red := range query.Reduce {
		reductions[i] = domain.Reduction(red)
	}
	measures := make([]domain.Measure, len(query.Columns))
	for i, col := range query.Columns {
		measures[i] = domain.Measure{Column: col, Reductions: reductions}
	}

	rows, err := h.service.Aggregate(r.Context(), session, ports.AggregateInput{
		GroupKeys: query.Group,
		Measures:  measures,
		Filter:    votingInput(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (h *AnalysisHandler) Pivot(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized: missing session context", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	query := pivotQuery{
		Index:   q.Get("index"),
		Columns: q.Get("columns"),
		Value:   q.Get("value"),
	}
	if err := validate.Struct(query); err != nil {
		writeValidationError(w, err)
		return
	}

	table, err := h.service.Pivot(r.Context(), session, ports.PivotInput{
		Index:   query.Index,
		Columns: query.Columns,
		Value:   query.Value,
		Filter:  votingInput(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, table)
}
