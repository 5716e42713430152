package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vncsmyrnk/election/internal/core/analysis"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
	"github.com/vncsmyrnk/election/pkg/logger"
)

type report struct {
	Seed        int64                 `json:"seed"`
	GeneratedAt time.Time             `json:"generated_at"`
	Overview    *domain.Overview      `json:"overview"`
	Prediction  *domain.Prediction    `json:"prediction"`
	VoteShare   *domain.VoteShareView `json:"vote_share"`
	Counting    *domain.CountingView  `json:"counting,omitempty"`
	Records     []domain.VoteRecord   `json:"records,omitempty"`
}

func main() {
	_ = godotenv.Load()

	var (
		seedFlag    string
		model       string
		withRecords bool
		pretty      bool
		logLevel    string
	)
	flag.StringVar(&seedFlag, "seed", envOr("DATASET_SEED", "42"), "Dataset seed")
	flag.StringVar(&model, "model", analysis.ModelEnsemble, "Prediction model")
	flag.BoolVar(&withRecords, "records", false, "Include the derived records and counting view")
	flag.BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	flag.StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level")
	flag.Parse()

	log := logger.New(logger.Config{Level: logLevel})

	seed, err := analysis.ParseSeed(seedFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid seed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	clock := services.SystemClock{}
	datasets := services.NewDatasetService(analysis.NewSynthesizer(analysis.DefaultSynthesisParams(), nil), nil, clock, log)
	dashboard := services.NewDashboardService(nil, clock)

	log.Info().Int64("seed", seed).Msg("Starting election report...")

	r, err := buildReport(ctx, datasets, dashboard, seed, model, withRecords)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building report")
	}
	r.GeneratedAt = clock.Now().UTC()

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		log.Fatal().Err(err).Msg("failed to write report")
	}

	log.Info().
		Str("winner", r.Prediction.Winner.Party).
		Float64("win_probability", r.Prediction.Winner.WinProbability).
		Msg("Election report completed successfully.")
}

func buildReport(ctx context.Context, datasets ports.DatasetService, dashboard ports.DashboardService, seed int64, model string, withRecords bool) (*report, error) {
	records, err := datasets.Load(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	session := &domain.Session{Username: "electionreport", Seed: seed, Records: records}

	r := &report{Seed: seed}
	if r.Overview, err = dashboard.Overview(ctx, session); err != nil {
		return nil, err
	}
	if r.Prediction, err = dashboard.Prediction(ctx, session, model); err != nil {
		return nil, err
	}
	if r.VoteShare, err = dashboard.VoteShare(ctx, session); err != nil {
		return nil, err
	}
	if withRecords {
		if r.Counting, err = dashboard.Counting(ctx, session); err != nil {
			return nil, err
		}
		r.Records = records
	}
	return r, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
