package main

import (
	"github.com/spf13/cobra"

	"tubely/internal/config"
	"tubely/internal/logger"
)

// commandContext loads configuration once for all subcommands.
type commandContext struct {
	cfg *config.Config
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log)
	c.cfg = cfg
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "tubelyctl",
		Short:         "Operator tools for the tubely video service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newTokenCommand(ctx))
	rootCmd.AddCommand(newProbeCommand(ctx))

	return rootCmd
}
