package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/catalog"
	"github.com/thraizz/realms-server-go/internal/config"
	"github.com/thraizz/realms-server-go/internal/game"
	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/rules"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

// maxSimulationRounds bounds a simulated match in case neither pilot can
// make progress.
const maxSimulationRounds = 10000

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Seed   uint64
	Turns  int
	First  string
	Second string
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a seeded match between two greedy pilots",
		Long: `Play a match between two catalog decks with a fixed seed and print
the final state and its checksum. The same seed, decks and catalog always
produce the same checksum.

Example:
  realms simulate --seed 42 --turns 10
  realms simulate --first "Guardia del Norte" --second "Manada Salvaje" --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "shuffle seed (must be non-zero)")
	cmd.Flags().IntVar(&opts.Turns, "turns", 20, "stop after this many turns")
	cmd.Flags().StringVar(&opts.First, "first", "", "deck of the first player (default: first deck in the catalog)")
	cmd.Flags().StringVar(&opts.Second, "second", "", "deck of the second player (default: last deck in the catalog)")

	return cmd
}

// SimulationReport is the json output of simulate.
type SimulationReport struct {
	Seed     uint64             `json:"seed"`
	Steps    int                `json:"steps"`
	Checksum string             `json:"checksum"`
	Snapshot game.MatchSnapshot `json:"snapshot"`
}

func runSimulation(ctx context.Context, opts *SimulateOptions, out io.Writer) error {
	if opts.Seed == 0 {
		return fmt.Errorf("--seed must be non-zero")
	}
	if opts.Turns < 1 {
		return fmt.Errorf("--turns must be positive, got %d", opts.Turns)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger, err := initLogger(config.LoggingConfig{Level: "warn", Format: cfg.Logging.Format})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	if ctx == nil {
		ctx = context.Background()
	}
	cat, decks, err := loadCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	first, err := pickDeck(cat, decks, opts.First, 0)
	if err != nil {
		return err
	}
	second, err := pickDeck(cat, decks, opts.Second, len(decks)-1)
	if err != nil {
		return err
	}

	gameOpts := gameOptions(cfg.Game)
	gameOpts.Seed = opts.Seed
	m, err := game.NewMatch(
		game.PlayerSetup{Name: "North", Deck: first},
		game.PlayerSetup{Name: "South", Deck: second},
		gameOpts,
		logger,
	)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	if err := m.Start(); err != nil {
		return err
	}

	steps := simulate(m, opts.Turns, logger)
	snap := m.Snapshot()

	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(SimulationReport{
			Seed:     opts.Seed,
			Steps:    steps,
			Checksum: snap.Checksum(),
			Snapshot: snap,
		})
	}
	fmt.Fprint(out, snap.Canonical())
	fmt.Fprintf(out, "STEPS:%d\nCHECKSUM:%s\n", steps, snap.Checksum())
	return nil
}

func pickDeck(cat *catalog.Catalog, decks []catalog.DeckList, name string, fallback int) ([]*cards.Definition, error) {
	if len(decks) == 0 {
		return nil, fmt.Errorf("no decks configured")
	}
	list := decks[fallback]
	if name != "" {
		key := catalog.NormalizeName(name)
		found := false
		for _, d := range decks {
			if catalog.NormalizeName(d.Name) == key {
				list, found = d, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("deck %q is not configured", name)
		}
	}
	return cat.Build(list)
}

// simulate drives m until turns have been played or the match ends and
// returns the number of actions applied.
func simulate(m *game.Match, turns int, logger *zap.Logger) int {
	steps := 0
	for round := 0; round < maxSimulationRounds; round++ {
		if _, over := m.Winner(); over || m.Turn() > turns {
			break
		}
		player := m.CurrentPlayer()
		moves, pass := plan(m, player)
		for _, a := range moves {
			if res := m.ExecuteAction(player, a.action, a.params); res.Success {
				steps++
			} else {
				logger.Debug("pilot action rejected",
					zap.String("player", player),
					zap.String("action", string(a.action)),
					zap.String("reason", res.Message),
				)
			}
		}
		if !pass {
			continue
		}
		if res := m.PassPhase(); !res.Success {
			logger.Warn("pilot could not pass", zap.String("reason", res.Message))
			break
		}
		steps++
	}
	return steps
}

type move struct {
	action rules.ActionType
	params game.Params
}

// plan returns the greedy moves of player and whether they pass afterwards:
// bottom the costliest card of the opening hand, cash in treasures and play
// whatever is affordable in the first main phase, then attack with every
// ready unit.
func plan(m *game.Match, player string) ([]move, bool) {
	snap := m.Snapshot()
	view, ok := snap.Player(player)
	if !ok {
		return nil, true
	}

	if snap.WaitingFor == string(rules.WaitingForMulligan) {
		hand := view.Zone(zone.Hand).Cards
		if len(hand) == 0 {
			return []move{{action: rules.ActionMulligan}}, false
		}
		costliest := hand[0]
		for _, c := range hand[1:] {
			if c.Cost > costliest.Cost {
				costliest = c
			}
		}
		return []move{{rules.ActionReturnToBottom, game.Params{CardID: mustID(costliest.ID)}}}, false
	}

	if player != snap.Priority {
		return nil, true
	}

	var moves []move
	switch snap.Phase {
	case rules.PhaseMain1.String():
		moves = append(moves, move{action: rules.ActionRevealTreasure})
		for _, c := range view.Zone(zone.Reserve).Cards {
			if c.Type == cards.TypeTreasure.String() {
				moves = append(moves, move{rules.ActionActivateTreasure, game.Params{CardID: mustID(c.ID)}})
			}
		}
		// Affordability is left to the engine; rejected plays are skipped.
		for _, c := range view.Zone(zone.Hand).Cards {
			moves = append(moves, move{rules.ActionPlayCard, game.Params{CardID: mustID(c.ID)}})
		}
	case rules.PhaseAttack.String():
		for _, c := range view.Zone(zone.Formation).Cards {
			if c.Type == cards.TypeUnit.String() && c.CanAttack && !c.Tapped {
				moves = append(moves, move{rules.ActionDeclareAttack, game.Params{CardID: mustID(c.ID)}})
			}
		}
	}
	return moves, true
}

func mustID(s string) cards.ID {
	id, err := cards.ParseID(s)
	if err != nil {
		panic(fmt.Sprintf("snapshot holds malformed card id %q", s))
	}
	return id
}
