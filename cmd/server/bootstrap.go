package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thraizz/realms-server-go/internal/catalog"
	"github.com/thraizz/realms-server-go/internal/config"
	"github.com/thraizz/realms-server-go/internal/game"
)

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// catalogSource opens the configured source. The returned closer releases
// any connection the source holds.
func catalogSource(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (catalog.Source, func(), error) {
	switch cfg.Source {
	case config.CatalogYAML:
		return catalog.YAMLSource{Path: cfg.Path}, func() {}, nil
	case config.CatalogCSV:
		return catalog.CSVSource{Path: cfg.Path}, func() {}, nil
	case config.CatalogPostgres:
		pg, err := catalog.NewPostgresSource(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported catalog source %q", cfg.Source)
	}
}

// loadCatalog reads the card catalog and the named deck lists.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (*catalog.Catalog, []catalog.DeckList, error) {
	src, closeSrc, err := catalogSource(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	defer closeSrc()

	cat, err := catalog.Load(ctx, src, logger)
	if err != nil {
		return nil, nil, err
	}

	var decks []catalog.DeckList
	if path := cfg.DeckFile(); path != "" {
		f, err := catalog.ReadYAMLFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read decks: %w", err)
		}
		decks = f.Decks
	}
	return cat, decks, nil
}

func gameOptions(cfg config.GameConfig) game.Options {
	return game.Options{
		StartingLife: cfg.StartingLife,
		OpeningHand:  cfg.OpeningHand,
		Seed:         cfg.Seed,
	}
}
