package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/gcgcards/internal/backend"
	"github.com/vijay-prabhu/gcgcards/internal/config"
	"github.com/vijay-prabhu/gcgcards/internal/database"
	"github.com/vijay-prabhu/gcgcards/internal/filter"
	"github.com/vijay-prabhu/gcgcards/internal/lookup"
	"github.com/vijay-prabhu/gcgcards/internal/output"
)

// app holds what the card commands share: the backend client and the
// optional adjustment journal
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend *backend.Client
	journal *database.DB
}

// newApp connects the backend client and opens the journal when enabled.
// A journal that cannot be opened is logged and skipped.
func newApp(cfg *config.Config, logger *zap.Logger) *app {
	a := &app{
		cfg:    cfg,
		logger: logger,
		backend: backend.New(cfg.Backend.BaseURL,
			backend.WithTimeout(cfg.Backend.TimeoutDuration()),
			backend.WithRateLimit(cfg.Backend.RequestsPerSecond),
			backend.WithLogger(logger.Named("backend"))),
	}

	if cfg.Database.Journal {
		if err := cfg.EnsureDirectories(); err != nil {
			logger.Warn("journal disabled", zap.Error(err))
			return a
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			logger.Warn("journal disabled", zap.String("path", cfg.Database.Path), zap.Error(err))
			return a
		}
		a.journal = db
	}
	return a
}

// Close releases the journal
func (a *app) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

// controller builds a controller reporting into p
func (a *app) controller(p lookup.Presenter) *lookup.Controller {
	var opts []lookup.Option
	if a.journal != nil {
		opts = append(opts, lookup.WithJournal(a.journal))
	}
	return lookup.New(a.backend, p, a.logger.Named("lookup"), opts...)
}

// criteria fills in the configured default limit
func (a *app) criteria(c filter.Criteria) filter.Criteria {
	if c.Limit == "" {
		c.Limit = a.cfg.Backend.DefaultLimit
	}
	return c
}

// display returns the rendering options from the config
func (a *app) display() output.Options {
	return output.Options{ImageFallbackURL: a.cfg.Display.ImageFallbackURL}
}

// addCriteriaFlags binds the search criteria flags to c
func addCriteriaFlags(cmd *cobra.Command, c *filter.Criteria) {
	f := cmd.Flags()
	f.StringVar(&c.SetCode, "set", "", "Set code, exact match (e.g. GD01)")
	f.StringVar(&c.CardType, "type", "", "Card type (UNIT, PILOT, COMMAND, BASE)")
	f.StringVar(&c.Cost, "cost", "", "Cost")
	f.StringVar(&c.Level, "level", "", "Level")
	f.StringVar(&c.Color, "color", "", "Color")
	f.StringVar(&c.Rarity, "rarity", "", "Rarity")
	f.StringVar(&c.AP, "ap", "", "AP")
	f.StringVar(&c.HP, "hp", "", "HP")
	f.StringVar(&c.APHPTotal, "ap-hp", "", "AP + HP total")
	f.StringVar(&c.MinScore, "min-score", "", "Minimum adjusted score; sorts by score")
	f.StringVar(&c.Name, "name", "", "Card name (fuzzy)")
	f.StringVar(&c.Limit, "limit", "", "Maximum records requested from the backend (default from config)")
}

// signalContext returns a context cancelled on interrupt or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// requireBackend fails early with the configuration hint
func requireBackend(a *app) error {
	if !a.backend.Configured() {
		return fmt.Errorf("%s: %w", lookup.MsgNotConfigured, backend.ErrNotConfigured)
	}
	return nil
}
