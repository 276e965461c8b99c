package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/game/effects"
)

// Schema creates the catalog table when it does not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS realm_cards (
	id            SERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	name_key      TEXT NOT NULL UNIQUE,
	cost          INTEGER NOT NULL DEFAULT 0,
	card_type     TEXT NOT NULL,
	rules_text    TEXT NOT NULL DEFAULT '',
	supertype     TEXT NOT NULL DEFAULT '',
	subtypes      TEXT[] NOT NULL DEFAULT '{}',
	strength      INTEGER,
	toughness     INTEGER,
	gold_value    INTEGER NOT NULL DEFAULT 0,
	keywords      TEXT[] NOT NULL DEFAULT '{}',
	effects       JSONB NOT NULL DEFAULT '[]',
	expansion     TEXT NOT NULL DEFAULT '',
	rarity        TEXT NOT NULL DEFAULT '',
	clarification TEXT NOT NULL DEFAULT ''
)`

const importBatchSize = 1000

// PostgresSource reads and writes catalog records in PostgreSQL.
type PostgresSource struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresSource connects to databaseURL and checks the connection.
func NewPostgresSource(ctx context.Context, databaseURL string, logger *zap.Logger) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect catalog database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}
	return &PostgresSource{pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// Migrate applies Schema.
func (s *PostgresSource) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	return nil
}

// Records implements Source.
func (s *PostgresSource) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, cost, card_type, rules_text, supertype, subtypes,
		       strength, toughness, gold_value, keywords, effects,
		       expansion, rarity, clarification
		FROM realm_cards
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec     Record
			rawEffs []byte
		)
		if err := rows.Scan(
			&rec.Name, &rec.Cost, &rec.Type, &rec.Text, &rec.Supertype, &rec.Subtypes,
			&rec.Strength, &rec.Toughness, &rec.Gold, &rec.Keywords, &rawEffs,
			&rec.Expansion, &rec.Rarity, &rec.Clarification,
		); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		if len(rawEffs) > 0 {
			var effs []effects.Descriptor
			if err := json.Unmarshal(rawEffs, &effs); err != nil {
				return nil, fmt.Errorf("card %q effects: %w", rec.Name, err)
			}
			rec.Effects = effs
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog rows: %w", err)
	}
	return records, nil
}

// Import upserts records in batches, one transaction per batch. It returns
// the number of rows written.
func (s *PostgresSource) Import(ctx context.Context, records []Record) (int, error) {
	start := time.Now()
	imported := 0
	for i := 0; i < len(records); i += importBatchSize {
		end := min(i+importBatchSize, len(records))
		n, err := s.importBatch(ctx, records[i:end])
		if err != nil {
			return imported, err
		}
		imported += n
	}
	if s.logger != nil {
		s.logger.Info("catalog import complete",
			zap.Int("imported", imported),
			zap.Duration("took", time.Since(start)),
		)
	}
	return imported, nil
}

func (s *PostgresSource) importBatch(ctx context.Context, batch []Record) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	queued := &pgx.Batch{}
	for _, rec := range batch {
		effs, err := json.Marshal(rec.Effects)
		if err != nil {
			return 0, fmt.Errorf("card %q effects: %w", rec.Name, err)
		}
		if rec.Effects == nil {
			effs = []byte("[]")
		}
		queued.Queue(`
			INSERT INTO realm_cards (
				name, name_key, cost, card_type, rules_text, supertype, subtypes,
				strength, toughness, gold_value, keywords, effects,
				expansion, rarity, clarification
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (name_key) DO UPDATE SET
				name = EXCLUDED.name, cost = EXCLUDED.cost, card_type = EXCLUDED.card_type,
				rules_text = EXCLUDED.rules_text, supertype = EXCLUDED.supertype,
				subtypes = EXCLUDED.subtypes, strength = EXCLUDED.strength,
				toughness = EXCLUDED.toughness, gold_value = EXCLUDED.gold_value,
				keywords = EXCLUDED.keywords, effects = EXCLUDED.effects,
				expansion = EXCLUDED.expansion, rarity = EXCLUDED.rarity,
				clarification = EXCLUDED.clarification`,
			rec.Name, NormalizeName(rec.Name), rec.Cost, rec.Type, rec.Text, rec.Supertype,
			nonNil(rec.Subtypes), rec.Strength, rec.Toughness, rec.Gold, nonNil(rec.Keywords),
			effs, rec.Expansion, rec.Rarity, rec.Clarification,
		)
	}

	results := tx.SendBatch(ctx, queued)
	for _, rec := range batch {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("insert card %q: %w", rec.Name, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close import batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(batch), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
