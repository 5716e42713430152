package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/vncsmyrnk/election/internal/core/analysis"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type datasetService struct {
	synth    *analysis.Synthesizer
	observer ports.PipelineObserver
	clock    ports.Clock
	log      zerolog.Logger

	// derived record sets by seed; never handed out without copying
	cache   map[int64][]domain.VoteRecord
	cacheMu sync.RWMutex
	sf      singleflight.Group
}

func NewDatasetService(synth *analysis.Synthesizer, observer ports.PipelineObserver, clock ports.Clock, log zerolog.Logger) ports.DatasetService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &datasetService{
		synth:    synth,
		observer: observer,
		clock:    clock,
		log:      log.With().Str("component", "dataset").Logger(),
		cache:    make(map[int64][]domain.VoteRecord),
	}
}

func (s *datasetService) Load(ctx context.Context, seed int64) ([]domain.VoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, shared := s.sf.Do(strconv.FormatInt(seed, 10), func() (any, error) {
		if records, ok := s.cached(seed); ok {
			return records, nil
		}

		start := s.clock.Now()
		raw, err := s.synth.Synthesize(seed)
		observe(s.observer, "synthesize", s.clock.Now().Sub(start), err)
		if err != nil {
			return nil, err
		}

		start = s.clock.Now()
		derived := analysis.Derive(raw)
		observe(s.observer, "derive", s.clock.Now().Sub(start), nil)

		s.cacheMu.Lock()
		s.cache[seed] = derived
		s.cacheMu.Unlock()

		s.log.Info().Int64("seed", seed).Int("records", len(derived)).Msg("dataset generated")
		return derived, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.Debug().Int64("seed", seed).Msg("dataset load shared with concurrent caller")
	}

	records := v.([]domain.VoteRecord)
	out := make([]domain.VoteRecord, len(records))
	copy(out, records)
	return out, nil
}

func (s *datasetService) cached(seed int64) ([]domain.VoteRecord, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	records, ok := s.cache[seed]
	return records, ok
}

func observe(o ports.PipelineObserver, operation string, elapsed time.Duration, err error) {
	if o == nil {
		return
	}
	o.ObserveOperation(operation, elapsed, err)
}
