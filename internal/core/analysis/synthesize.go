package analysis

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

type PartyStrength struct {
	Party string
	Min   float64
	Max   float64
}

type StatusWeight struct {
	Status domain.CountingStatus
	Weight float64
}

// SynthesisParams fixes the shape and ranges of a generated record set.
type SynthesisParams struct {
	Regions                 []string
	ConstituenciesPerRegion int
	Parties                 []PartyStrength
	MinVoters               int64
	MaxVoters               int64
	MinTurnout              float64
	MaxTurnout              float64
	MinCounted              float64
	MaxCounted              float64
	Statuses                []StatusWeight
}

func DefaultSynthesisParams() SynthesisParams {
	return SynthesisParams{
		Regions:                 []string{"North", "South", "East", "West", "Central"},
		ConstituenciesPerRegion: 20,
		Parties: []PartyStrength{
			{Party: "Party A", Min: 0.25, Max: 0.35},
			{Party: "Party B", Min: 0.20, Max: 0.30},
			{Party: "Party C", Min: 0.15, Max: 0.25},
			{Party: "Party D", Min: 0.10, Max: 0.20},
			{Party: "Independent", Min: 0.05, Max: 0.15},
		},
		MinVoters:  50000,
		MaxVoters:  200000,
		MinTurnout: 0.60,
		MaxTurnout: 0.85,
		MinCounted: 0.75,
		MaxCounted: 0.95,
		Statuses: []StatusWeight{
			{Status: domain.StatusComplete, Weight: 0.70},
			{Status: domain.StatusInProgress, Weight: 0.25},
			{Status: domain.StatusPending, Weight: 0.05},
		},
	}
}

func (p SynthesisParams) Validate() error {
	if len(p.Regions) == 0 || len(p.Parties) == 0 || p.ConstituenciesPerRegion <= 0 {
		return fmt.Errorf("synthesis params: regions, parties and constituencies are required")
	}
	if p.MaxVoters <= p.MinVoters || p.MinVoters < 0 {
		return fmt.Errorf("synthesis params: voter range [%d, %d) is empty", p.MinVoters, p.MaxVoters)
	}
	if len(p.Statuses) == 0 {
		return fmt.Errorf("synthesis params: at least one counting status is required")
	}
	return nil
}

// SourceFactory builds the random source for a seed. Two sources built from
// the same seed must yield the same sequence.
type SourceFactory func(seed int64) rand.Source

func PCGSource(seed int64) rand.Source {
	return rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15)
}

type Synthesizer struct {
	params    SynthesisParams
	newSource SourceFactory
}

func NewSynthesizer(params SynthesisParams, newSource SourceFactory) *Synthesizer {
	if newSource == nil {
		newSource = PCGSource
	}
	return &Synthesizer{params: params, newSource: newSource}
}

// Synthesize generates records with the default parameters and PCG source.
func Synthesize(seed int64) ([]domain.VoteRecord, error) {
	return NewSynthesizer(DefaultSynthesisParams(), PCGSource).Synthesize(seed)
}

func (s *Synthesizer) Synthesize(seed int64) ([]domain.VoteRecord, error) {
	if seed < 0 {
		return nil, &domain.InvalidSeedError{Seed: strconv.FormatInt(seed, 10), Reason: "must be non-negative"}
	}
	if err := s.params.Validate(); err != nil {
		return nil, err
	}

	p := s.params
	r := rand.New(s.newSource(seed))
	records := make([]domain.VoteRecord, 0, len(p.Regions)*p.ConstituenciesPerRegion*len(p.Parties))

	for _, region := range p.Regions {
		for id := 1; id <= p.ConstituenciesPerRegion; id++ {
			name := domain.ConstituencyName(region, id)
			totalVoters := p.MinVoters + r.Int64N(p.MaxVoters-p.MinVoters)

			for _, party := range p.Parties {
				turnout := uniform(r, p.MinTurnout, p.MaxTurnout)
				strength := uniform(r, party.Min, party.Max)
				votes := int64(math.Floor(float64(totalVoters) * turnout * strength))
				status := pickStatus(r, p.Statuses)
				counted := int64(math.Floor(float64(votes) * uniform(r, p.MinCounted, p.MaxCounted)))

				records = append(records, domain.VoteRecord{
					Region:           region,
					ConstituencyID:   id,
					ConstituencyName: name,
					TotalVoters:      totalVoters,
					Party:            party.Party,
					Votes:            votes,
					CountingStatus:   status,
					CountedVotes:     counted,
				})
			}
		}
	}

	return records, nil
}

// ParseSeed parses a seed supplied as text.
func ParseSeed(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.InvalidSeedError{Seed: raw, Reason: "not an integer"}
	}
	if seed < 0 {
		return 0, &domain.InvalidSeedError{Seed: raw, Reason: "must be non-negative"}
	}
	return seed, nil
}

func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

func pickStatus(r *rand.Rand, weights []StatusWeight) domain.CountingStatus {
	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	u := r.Float64() * total
	var cum float64
	for _, w := range weights {
		cum += w.Weight
		if u < cum {
			return w.Status
		}
	}
	return weights[len(weights)-1].Status
}
