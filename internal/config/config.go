// Package config loads server configuration from a YAML file, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. REALMS_GAME_SEED.
const EnvPrefix = "REALMS"

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
	GRPC GRPCConfig `mapstructure:"grpc"`
}

// HTTPConfig configures the HTTP and websocket listener.
type HTTPConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GRPCConfig configures the gRPC listener.
type GRPCConfig struct {
	Address              string `mapstructure:"address"`
	MaxConcurrentStreams int    `mapstructure:"max_concurrent_streams"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds match defaults.
type GameConfig struct {
	StartingLife int `mapstructure:"starting_life"`
	OpeningHand  int `mapstructure:"opening_hand"`
	// Seed makes shuffles reproducible; 0 draws a fresh seed per match.
	Seed uint64 `mapstructure:"seed"`
}

// Catalog source kinds.
const (
	CatalogYAML     = "yaml"
	CatalogCSV      = "csv"
	CatalogPostgres = "postgres"
)

// CatalogConfig selects where card definitions come from.
type CatalogConfig struct {
	Source      string `mapstructure:"source"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
	// DecksPath is a YAML catalog file whose decks section lists the
	// named decks players can pick. Empty reuses Path for yaml sources.
	DecksPath string `mapstructure:"decks_path"`
}

// DeckFile returns the file that holds the named decks, or "" if none.
func (c CatalogConfig) DeckFile() string {
	if c.DecksPath != "" {
		return c.DecksPath
	}
	if c.Source == CatalogYAML {
		return c.Path
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http.address", ":8080")
	v.SetDefault("server.http.allowed_origins", []string{})
	v.SetDefault("server.grpc.address", ":50051")
	v.SetDefault("server.grpc.max_concurrent_streams", 100)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.starting_life", 20)
	v.SetDefault("game.opening_hand", 7)
	v.SetDefault("game.seed", 0)
	v.SetDefault("catalog.source", CatalogYAML)
	v.SetDefault("catalog.path", "config/catalog.yaml")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.decks_path", "")
}

// Load reads path (if non-empty), applies REALMS_ environment overrides and
// validates the result. A .env file in the working directory is loaded
// first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.HTTP.Address == "" {
		errs = append(errs, errors.New("server.http.address is required"))
	}
	if c.Server.GRPC.Address == "" {
		errs = append(errs, errors.New("server.grpc.address is required"))
	}
	if c.Server.GRPC.MaxConcurrentStreams < 1 {
		errs = append(errs, fmt.Errorf("server.grpc.max_concurrent_streams must be positive, got %d", c.Server.GRPC.MaxConcurrentStreams))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not json or console", c.Logging.Format))
	}
	if c.Game.StartingLife < 1 {
		errs = append(errs, fmt.Errorf("game.starting_life must be positive, got %d", c.Game.StartingLife))
	}
	if c.Game.OpeningHand < 1 || c.Game.OpeningHand > 7 {
		errs = append(errs, fmt.Errorf("game.opening_hand must be between 1 and 7, got %d", c.Game.OpeningHand))
	}
	switch c.Catalog.Source {
	case CatalogYAML, CatalogCSV:
		if c.Catalog.Path == "" {
			errs = append(errs, fmt.Errorf("catalog.path is required for %s catalogs", c.Catalog.Source))
		}
	case CatalogPostgres:
		if c.Catalog.DatabaseURL == "" {
			errs = append(errs, errors.New("catalog.database_url is required for postgres catalogs"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog.source %q is not yaml, csv or postgres", c.Catalog.Source))
	}
	return errors.Join(errs...)
}
