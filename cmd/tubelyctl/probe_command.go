package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubely/internal/media"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Report the geometry and aspect class of a local video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			prober := media.NewProber(cfg.Media.FFprobePath, cfg.Media.ProbeTimeout, media.NewRunner(1))
			geometry, err := prober.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%dx%d %s\n", geometry.Width, geometry.Height, geometry.Aspect())
			return nil
		},
	}
}
