package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/pkg/logger"
)

const basePath = "internal/adapters/repository/postgres/migrations"

func main() {
	down := flag.Bool("down", false, "Apply the down migration instead of the up one")
	dir := flag.String("dir", basePath, "Migrations directory")
	flag.Parse()

	log := logger.New(logger.Config{Level: os.Getenv("LOG_LEVEL")})

	if flag.NArg() < 1 {
		log.Fatal().Msg("a migration name is required.")
	}
	migrationName := flag.Arg(0)

	pg, err := config.LoadPostgres()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}

	db, err := sql.Open("postgres", pg.ConnString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	direction := "up"
	if *down {
		direction = "down"
	}

	fileName, fileContent, err := migrationFileContent(*dir, migrationName, direction)
	if err != nil {
		log.Fatal().Err(err).Str("migration", migrationName).Msg("failed to read migration")
	}

	if _, err = db.Exec(string(fileContent)); err != nil {
		log.Fatal().Err(err).Str("file", fileName).Msg("Failed to execute SQL file")
	}

	log.Info().Str("file", fileName).Msg("Migration file executed successfully.")
}

func migrationFileContent(basePath, migrationName, direction string) (string, []byte, error) {
	fileName, err := migrationFilePath(basePath, migrationName, direction)
	if err != nil {
		return "", nil, err
	}

	fileContent, err := os.ReadFile(filepath.Join(basePath, fileName))
	if err != nil {
		return "", nil, err
	}

	return fileName, fileContent, nil
}

func migrationFilePath(basePath, migrationName, direction string) (string, error) {
	patternStr := fmt.Sprintf(`^.*%s\.%s\.sql$`, regexp.QuoteMeta(migrationName), direction)

	regex, err := regexp.Compile(patternStr)
	if err != nil {
		return "", fmt.Errorf("invalid pattern: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}

		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file not found")
}
