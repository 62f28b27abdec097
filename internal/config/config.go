package config

import (
	"fmt"
	"os"
	"strconv"

	"edh-elo/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath       string
	ServerPort   string
	LogLevel     string
	SheetFeedURL string

	// Rating engine parameters. Explicit so tests and deployments can
	// run alternate parameterizations.
	StartingElo int
	KFactor     float64
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "edh-elo.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SheetFeedURL: getEnv("SHEET_FEED_URL", ""),
		StartingElo:  constants.DefaultStartingElo,
		KFactor:      constants.DefaultKFactor,
	}

	if v := os.Getenv("STARTING_ELO"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STARTING_ELO %q: %w", v, err)
		}
		cfg.StartingElo = n
	}
	if v := os.Getenv("K_FACTOR"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid K_FACTOR %q: %w", v, err)
		}
		if f <= 0 {
			return nil, fmt.Errorf("K_FACTOR must be positive, got %v", f)
		}
		cfg.KFactor = f
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("starting_elo", cfg.StartingElo).
		Float64("k_factor", cfg.KFactor).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
