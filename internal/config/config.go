package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	AuthModeStatic   = "static"
	AuthModePostgres = "postgres"
	AuthModeGoogle   = "google"
)

type PostgresConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required,numeric"`
	User     string `validate:"required"`
	Password string
	DB       string `validate:"required"`
}

// ConnString returns a lib/pq compatible URL.
func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// Config holds application configuration
type Config struct {
	Port           int            `validate:"min=1,max=65535"`
	LogLevel       string         `validate:"oneof=debug info warn error"`
	JWTSecret      string         `validate:"required,min=16"`
	SessionTTL     time.Duration  `validate:"min=1m"`
	DatasetSeed    int64          `validate:"min=0"`
	AuthMode       string         `validate:"oneof=static postgres google"`
	AdminUsername  string         `validate:"required_if=AuthMode static"`
	AdminPassword  string         `validate:"required_if=AuthMode static"`
	GoogleClientID string         `validate:"required_if=AuthMode google"`
	Postgres       PostgresConfig `validate:"-"`
	AllowedOrigins []string       `validate:"dive,required"`
	LogPretty      bool
}

// Load reads configuration from the environment, after a best-effort .env load.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvAsInt("PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 8*time.Hour),
		DatasetSeed:    int64(getEnvAsInt("DATASET_SEED", 42)),
		AuthMode:       getEnv("AUTH_MODE", AuthModeStatic),
		AdminUsername:  getEnv("ADMIN_USERNAME", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		Postgres:       postgresFromEnv(),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogPretty:      getEnvAsBool("LOG_PRETTY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadPostgres reads only the database settings, for tools that never start
// the server.
func LoadPostgres() (PostgresConfig, error) {
	_ = godotenv.Load()

	cfg := postgresFromEnv()
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func postgresFromEnv() PostgresConfig {
	return PostgresConfig{
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		User:     getEnv("POSTGRES_USER", "postgres"),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		DB:       getEnv("POSTGRES_DB", "election"),
	}
}

var validate = validator.New()

// Validate reports every invalid setting by its environment variable name.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		if c.AuthMode == AuthModePostgres {
			err = validate.Struct(c.Postgres)
		}
		if err == nil {
			return nil
		}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", envName(fe.StructNamespace()), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

var envNames = map[string]string{
	"Port":           "PORT",
	"LogLevel":       "LOG_LEVEL",
	"JWTSecret":      "JWT_SECRET",
	"SessionTTL":     "SESSION_TTL",
	"DatasetSeed":    "DATASET_SEED",
	"AuthMode":       "AUTH_MODE",
	"AdminUsername":  "ADMIN_USERNAME",
	"AdminPassword":  "ADMIN_PASSWORD",
	"GoogleClientID": "GOOGLE_CLIENT_ID",
	"AllowedOrigins": "CORS_ALLOWED_ORIGINS",
	"Host":           "POSTGRES_HOST",
	"User":           "POSTGRES_USER",
	"DB":             "POSTGRES_DB",
}

func envName(namespace string) string {
	field := namespace[strings.LastIndex(namespace, ".")+1:]
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
	}
	if strings.HasPrefix(namespace, "PostgresConfig.") && field == "Port" {
		return "POSTGRES_PORT"
	}
	if name, ok := envNames[field]; ok {
		return name
	}
	return field
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
