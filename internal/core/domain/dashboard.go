package domain

// Series is a labelled value list, the shape a bar or pie chart plots.
type Series struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Overview struct {
	TotalVotes     int64    `json:"total_votes"`
	Constituencies int      `json:"constituencies"`
	TurnoutPct     float64  `json:"turnout_pct"`
	LeadingParty   string   `json:"leading_party"`
	VotesByParty   []Series `json:"votes_by_party"`
	VotesByRegion  []Series `json:"votes_by_region"`
}

type VotingView struct {
	Region            string       `json:"region,omitempty"`
	Party             string       `json:"party,omitempty"`
	VotesByParty      []Series     `json:"votes_by_party"`
	TopConstituencies []Series     `json:"top_constituencies"`
	Records           []VoteRecord `json:"records"`
}

type StatusCount struct {
	Region string         `json:"region,omitempty"`
	Status CountingStatus `json:"status"`
	Count  int64          `json:"count"`
}

type CountingView struct {
	Complete            int64         `json:"complete"`
	InProgress          int64         `json:"in_progress"`
	Pending             int64         `json:"pending"`
	ProgressByRegion    []StatusCount `json:"progress_by_region"`
	CountedVotesByParty []Series      `json:"counted_votes_by_party"`
	Records             []VoteRecord  `json:"records"`
}

type Prediction struct {
	Model   string           `json:"model"`
	Winner  PartyAggregate   `json:"winner"`
	Parties []PartyAggregate `json:"parties"`
}

type PartyVoteStats struct {
	Party      string  `json:"party"`
	TotalVotes float64 `json:"total_votes"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	SharePct   float64 `json:"share_pct"`
}

type VoteShareView struct {
	Parties []PartyVoteStats `json:"parties"`
}

type RegionPartyVotes struct {
	Region string  `json:"region"`
	Party  string  `json:"party"`
	Votes  float64 `json:"votes"`
}

type RegionalView struct {
	Regions       []string           `json:"regions"`
	ByRegionParty []RegionPartyVotes `json:"by_region_party"`
	RegionTotals  []Series           `json:"region_totals"`
	Comparison    PivotTable         `json:"comparison"`
}
