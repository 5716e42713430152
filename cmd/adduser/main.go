package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
	"github.com/vncsmyrnk/election/pkg/logger"
)

func main() {
	var username, password string
	flag.StringVar(&username, "username", "", "Username of the new account")
	flag.StringVar(&password, "password", os.Getenv("NEW_USER_PASSWORD"), "Password of the new account")
	flag.Parse()

	log := logger.New(logger.Config{Level: os.Getenv("LOG_LEVEL")})

	pg, err := config.LoadPostgres()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}

	db, err := sql.Open("postgres", pg.ConnString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to reach database")
	}

	userService := services.NewUserService(postgres.NewUserRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := userService.Register(ctx, ports.RegisterUserInput{Username: username, Password: password})
	if errors.Is(err, domain.ErrUserExists) {
		log.Fatal().Str("username", username).Msg("user already exists")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register user")
	}

	log.Info().Str("id", user.ID.String()).Str("username", user.Username).Msg("user registered")
}
