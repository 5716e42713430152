package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const defaultSessionTTL = 8 * time.Hour

type AuthConfig struct {
	JWTSecret   string
	SessionTTL  time.Duration
	DefaultSeed int64
}

type AuthService struct {
	authenticator ports.Authenticator
	sessions      ports.SessionStore
	datasets      ports.DatasetService
	clock         ports.Clock
	jwtSecret     []byte
	sessionTTL    time.Duration
	defaultSeed   int64
	log           zerolog.Logger
}

func NewAuthService(authenticator ports.Authenticator, sessions ports.SessionStore, datasets ports.DatasetService, clock ports.Clock, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT secret not set")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		datasets:      datasets,
		clock:         clock,
		jwtSecret:     []byte(cfg.JWTSecret),
		sessionTTL:    cfg.SessionTTL,
		defaultSeed:   cfg.DefaultSeed,
		log:           log.With().Str("component", "auth").Logger(),
	}
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*domain.Session, string, error) {
	ok, err := s.authenticator.Verify(ctx, input.Credentials)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify credentials: %w", err)
	}
	if !ok {
		s.log.Info().Str("username", input.Credentials.Username).Msg("login rejected")
		return nil, "", domain.ErrInvalidCredentials
	}

	seed := s.defaultSeed
	if input.Seed != nil {
		seed = *input.Seed
	}

	records, err := s.datasets.Load(ctx, seed)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load dataset: %w", err)
	}

	now := s.clock.Now()
	s.sweep(ctx, now)
	session := &domain.Session{
		ID:        uuid.New(),
		Username:  sessionUsername(input.Credentials),
		Seed:      seed,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
		Records:   records,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.generateAccessToken(session)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	s.log.Info().Str("username", session.Username).Str("session_id", session.ID.String()).Int64("seed", seed).Msg("session created")
	return session, token, nil
}

func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	sid, _ := claims["sid"].(string)
	sessionID, err := uuid.Parse(sid)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed session id", domain.ErrInvalidCredentials)
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.clock.Now()) {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	err := s.sessions.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.log.Info().Str("session_id", sessionID.String()).Msg("session destroyed")
	return nil
}

// SweepExpired drops every session that has expired by the service clock.
func (s *AuthService) SweepExpired(ctx context.Context) (int, error) {
	removed, err := s.sessions.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	return removed, nil
}

// RunSessionSweeper calls SweepExpired every interval until ctx is done.
func (s *AuthService) RunSessionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, s.clock.Now())
		}
	}
}

func (s *AuthService) sweep(ctx context.Context, now time.Time) {
	removed, err := s.sessions.DeleteExpired(ctx, now)
	if err != nil {
		s.log.Warn().Err(err).Msg("session sweep failed")
		return
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("expired sessions swept")
	}
}

func (s *AuthService) generateAccessToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": session.Username,
		"sid": session.ID.String(),
		"exp": session.ExpiresAt.Unix(),
		"iat": session.CreatedAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func sessionUsername(creds domain.Credentials) string {
	if creds.Username != "" {
		return creds.Username
	}
	return "google-user"
}
