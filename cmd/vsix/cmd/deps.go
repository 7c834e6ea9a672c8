package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barysiuk/vsix/internal/core"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config       *core.ConfigManager
	cfg          *core.Config
	marketplace  *core.MarketplaceClient
	orchestrator *core.Orchestrator
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps(cmd *cobra.Command) (*deps, error) {
	config, err := core.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flagURL, _ := cmd.Flags().GetString("marketplace")
	mp := core.NewMarketplaceClient(core.ResolveMarketplaceURL(flagURL, cfg), cfg.Timeout())

	o, err := core.NewOrchestrator(mp, cfg.CLIPreferred())
	if err != nil {
		return nil, err
	}

	return &deps{
		config:       config,
		cfg:          cfg,
		marketplace:  mp,
		orchestrator: o,
	}, nil
}
