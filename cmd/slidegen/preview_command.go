package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"slidegen/internal/config"
	"slidegen/internal/output"
	"slidegen/internal/services"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "preview [post.json]",
		Short: "Render an HTML preview for a written post",
		Long:  "Render an HTML preview for a post JSON file. Defaults to the configured output file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := cfg.OutputPath()
			if len(args) == 1 {
				source, err = config.ExpandPath(args[0])
				if err != nil {
					return services.Wrap(services.ErrConfiguration, "cli", "preview", "invalid post path", err)
				}
			}
			post, err := output.LoadPost(source)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outPath)
			if target == "" {
				target = strings.TrimSuffix(source, filepath.Ext(source)) + ".html"
			} else if target, err = config.ExpandPath(target); err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "preview", "invalid --out", err)
			}
			if err := output.WritePreview(cmd.Context(), target, post); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote preview to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Preview file path (defaults beside the post)")
	return cmd
}
