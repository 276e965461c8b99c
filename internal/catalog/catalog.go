// Package catalog loads printed card definitions from YAML, CSV or
// PostgreSQL and assembles them into decks for the rules engine.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/game/cards"
)

// Source yields catalog records.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// Catalog indexes definitions by normalized name.
type Catalog struct {
	mu     sync.RWMutex
	byKey  map[string]*cards.Definition
	order  []*cards.Definition
	logger *zap.Logger
}

// New returns an empty catalog.
func New(logger *zap.Logger) *Catalog {
	return &Catalog{
		byKey:  make(map[string]*cards.Definition),
		logger: logger,
	}
}

// Load reads every record from src into a new catalog. Invalid records are
// collected and reported together; valid ones are still added.
func Load(ctx context.Context, src Source, logger *zap.Logger) (*Catalog, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c := New(logger)
	if err := c.AddAll(records); err != nil {
		return c, err
	}
	if logger != nil {
		logger.Info("catalog loaded", zap.Int("cards", c.Len()))
	}
	return c, nil
}

// Add validates rec and indexes it. A second record with the same
// normalized name is rejected.
func (c *Catalog) Add(rec Record) (*cards.Definition, error) {
	def, err := rec.Definition()
	if err != nil {
		return nil, err
	}
	key := NormalizeName(def.Name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.byKey[key]; dup {
		return nil, fmt.Errorf("duplicate card %q", def.Name)
	}
	c.byKey[key] = def
	c.order = append(c.order, def)
	return def, nil
}

// AddAll adds every record and joins the errors of those that fail.
func (c *Catalog) AddAll(records []Record) error {
	var errs []error
	for _, rec := range records {
		if _, err := c.Add(rec); err != nil {
			errs = append(errs, err)
			if c.logger != nil {
				c.logger.Warn("skipping catalog record", zap.String("name", rec.Name), zap.Error(err))
			}
		}
	}
	return errors.Join(errs...)
}

// Lookup finds a definition by name, ignoring case and accents.
func (c *Catalog) Lookup(name string) (*cards.Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.byKey[NormalizeName(name)]
	return def, ok
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Definitions returns the definitions in insertion order.
func (c *Catalog) Definitions() []*cards.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*cards.Definition, len(c.order))
	copy(out, c.order)
	return out
}
