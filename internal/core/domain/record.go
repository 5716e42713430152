package domain

import (
	"fmt"
	"strconv"
)

type CountingStatus string

const (
	StatusComplete   CountingStatus = "Complete"
	StatusInProgress CountingStatus = "In Progress"
	StatusPending    CountingStatus = "Pending"
)

// VoteRecord is one row per (constituency, party). TotalConstituencyVotes and
// VoteSharePct are only meaningful after derivation.
type VoteRecord struct {
	Region                 string         `json:"region"`
	ConstituencyID         int            `json:"constituency_id"`
	ConstituencyName       string         `json:"constituency_name"`
	TotalVoters            int64          `json:"total_voters"`
	Party                  string         `json:"party"`
	Votes                  int64          `json:"votes"`
	CountingStatus         CountingStatus `json:"counting_status"`
	CountedVotes           int64          `json:"counted_votes"`
	TotalConstituencyVotes int64          `json:"total_constituency_votes"`
	VoteSharePct           float64        `json:"vote_share_pct"`
}

func ConstituencyName(region string, id int) string {
	return fmt.Sprintf("%s Constituency %d", region, id)
}

// Record columns usable as group keys or measures.
const (
	ColumnRegion                 = "region"
	ColumnConstituencyID         = "constituency_id"
	ColumnConstituencyName       = "constituency_name"
	ColumnTotalVoters            = "total_voters"
	ColumnParty                  = "party"
	ColumnVotes                  = "votes"
	ColumnCountingStatus         = "counting_status"
	ColumnCountedVotes           = "counted_votes"
	ColumnTotalConstituencyVotes = "total_constituency_votes"
	ColumnVoteSharePct           = "vote_share_pct"
)

var dimensionColumns = map[string]bool{
	ColumnRegion:           false,
	ColumnConstituencyID:   true,
	ColumnConstituencyName: false,
	ColumnParty:            false,
	ColumnCountingStatus:   false,
}

var measureColumns = map[string]struct{}{
	ColumnVotes:                  {},
	ColumnCountedVotes:           {},
	ColumnTotalVoters:            {},
	ColumnTotalConstituencyVotes: {},
	ColumnVoteSharePct:           {},
}

func IsDimension(column string) bool {
	_, ok := dimensionColumns[column]
	return ok
}

// IsNumericDimension reports whether a dimension's values order numerically.
func IsNumericDimension(column string) bool {
	return dimensionColumns[column]
}

func IsMeasure(column string) bool {
	_, ok := measureColumns[column]
	return ok
}

func (r VoteRecord) Dimension(column string) (string, bool) {
	switch column {
	case ColumnRegion:
		return r.Region, true
	case ColumnConstituencyID:
		return strconv.Itoa(r.ConstituencyID), true
	case ColumnConstituencyName:
		return r.ConstituencyName, true
	case ColumnParty:
		return r.Party, true
	case ColumnCountingStatus:
		return string(r.CountingStatus), true
	}
	return "", false
}

func (r VoteRecord) Measure(column string) (float64, bool) {
	switch column {
	case ColumnVotes:
		return float64(r.Votes), true
	case ColumnCountedVotes:
		return float64(r.CountedVotes), true
	case ColumnTotalVoters:
		return float64(r.TotalVoters), true
	case ColumnTotalConstituencyVotes:
		return float64(r.TotalConstituencyVotes), true
	case ColumnVoteSharePct:
		return r.VoteSharePct, true
	}
	return 0, false
}
