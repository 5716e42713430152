package analysis

import "github.com/vncsmyrnk/election/internal/core/domain"

// Filter keeps records matching every non-empty field of f.
type Filter struct {
	Regions []string
	Party   string
	Status  domain.CountingStatus
}

func (f Filter) Apply(records []domain.VoteRecord) []domain.VoteRecord {
	regions := make(map[string]struct{}, len(f.Regions))
	for _, r := range f.Regions {
		if r != "" {
			regions[r] = struct{}{}
		}
	}

	out := make([]domain.VoteRecord, 0, len(records))
	for _, rec := range records {
		if len(regions) > 0 {
			if _, ok := regions[rec.Region]; !ok {
				continue
			}
		}
		if f.Party != "" && rec.Party != f.Party {
			continue
		}
		if f.Status != "" && rec.CountingStatus != f.Status {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Distinct returns the values of a dimension in first-seen order.
func Distinct(records []domain.VoteRecord, column string) ([]string, error) {
	if !domain.IsDimension(column) {
		return nil, &domain.UnknownGroupKeyError{Key: column}
	}
	seen := make(map[string]struct{})
	var values []string
	for _, rec := range records {
		v, _ := rec.Dimension(column)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values, nil
}
