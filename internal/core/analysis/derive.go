package analysis

import "github.com/vncsmyrnk/election/internal/core/domain"

// Derive returns a copy of records with TotalConstituencyVotes and
// VoteSharePct computed per constituency. Both are recomputed from Votes, so
// deriving twice gives the same result.
func Derive(records []domain.VoteRecord) []domain.VoteRecord {
	out := make([]domain.VoteRecord, len(records))
	copy(out, records)

	var order []string
	members := make(map[string][]int)
	for i, r := range out {
		if _, seen := members[r.ConstituencyName]; !seen {
			order = append(order, r.ConstituencyName)
		}
		members[r.ConstituencyName] = append(members[r.ConstituencyName], i)
	}

	for _, name := range order {
		idx := members[name]
		var total int64
		votes := make([]float64, len(idx))
		for k, i := range idx {
			total += out[i].Votes
			votes[k] = float64(out[i].Votes)
		}
		shares := Percentages(votes)
		for k, i := range idx {
			out[i].TotalConstituencyVotes = total
			out[i].VoteSharePct = shares[k]
		}
	}

	return out
}
