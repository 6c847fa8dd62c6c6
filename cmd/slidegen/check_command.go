package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"slidegen/internal/preflight"
	"slidegen/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, image coverage, and the text service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := ctx.catalog(variant)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Readiness", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cmd.Context(), cfg, cat)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if cfg.OfflineProvider() {
				fmt.Fprintln(out, renderStatusLine("Text service", statusWarn, "provider none (fallback copy only)", colorize))
			}
			if !preflight.AllPassed(results) {
				return services.Wrap(services.ErrConfiguration, "cli", "check", "", errors.New("one or more checks failed"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "Built-in catalog variant (overrides config)")
	return cmd
}
