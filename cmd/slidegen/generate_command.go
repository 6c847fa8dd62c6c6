package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"slidegen/internal/config"
	"slidegen/internal/pipeline"
	"slidegen/internal/services"
)

type generateOptions struct {
	variant   string
	route     string
	seed      string
	offline   bool
	output    string
	noPreview bool
	json      bool
}

type generateSummary struct {
	RunID       string `json:"run_id"`
	Variant     string `json:"variant"`
	Route       string `json:"route"`
	Source      string `json:"source"`
	Attempts    int    `json:"attempts"`
	Seed        uint64 `json:"seed"`
	Slides      int    `json:"slides"`
	Hook        string `json:"hook"`
	OutputPath  string `json:"output_path"`
	PreviewPath string `json:"preview_path,omitempty"`
	RewriteErr  string `json:"rewrite_error,omitempty"`
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Assemble one post and write it to the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.variant, "variant", "", "Built-in catalog variant (overrides config)")
	cmd.Flags().StringVar(&opts.route, "route", "", "Route id (random when empty)")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "Random seed for a reproducible run")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Skip the text service and use fallback copy")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (overrides config)")
	cmd.Flags().BoolVar(&opts.noPreview, "no-preview", false, "Do not write the HTML preview")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the run summary as JSON")

	return cmd
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, opts generateOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cat, err := ctx.catalog(opts.variant)
	if err != nil {
		return err
	}

	req := pipeline.Request{
		RunID:       uuid.NewString(),
		Route:       strings.TrimSpace(opts.route),
		Offline:     opts.offline,
		SkipPreview: opts.noPreview,
	}
	if opts.output != "" {
		path, err := config.ExpandPath(opts.output)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "cli", "generate", "invalid --output", err)
		}
		req.OutputPath = path
	}
	if value := strings.TrimSpace(opts.seed); value != "" {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "cli", "generate", fmt.Sprintf("invalid --seed %q", value), err)
		}
		req.Seed = &seed
	}

	logger, err := ctx.logger(req.RunID)
	if err != nil {
		return err
	}

	genOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if !opts.offline {
		rw, err := pipeline.BuildRewriter(cmd.Context(), cfg, cat, logger)
		if err != nil {
			return err
		}
		if rw != nil {
			genOpts = append(genOpts, pipeline.WithRewriter(rw))
		}
	}
	if cfg.Generation.RecordHistory {
		store, err := ctx.openHistory()
		if err != nil {
			return err
		}
		defer store.Close()
		genOpts = append(genOpts, pipeline.WithHistory(store))
	}

	gen, err := pipeline.New(cfg, cat, genOpts...)
	if err != nil {
		return err
	}
	result, err := gen.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	summary := generateSummary{
		RunID:       result.RunID,
		Variant:     result.Post.Variant,
		Route:       result.Post.Route,
		Source:      result.Source,
		Attempts:    result.Attempts,
		Seed:        result.Seed,
		Slides:      len(result.Post.Slides),
		Hook:        result.Post.Hook.Text,
		OutputPath:  result.OutputPath,
		PreviewPath: result.PreviewPath,
	}
	if result.RewriteErr != nil {
		summary.RewriteErr = result.RewriteErr.Error()
	}
	if opts.json {
		return writeJSON(cmd, summary)
	}
	printGenerateSummary(cmd, summary)
	return nil
}

func printGenerateSummary(cmd *cobra.Command, summary generateSummary) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	kind := statusOK
	source := summary.Source
	if summary.RewriteErr != "" {
		kind = statusWarn
		source = fmt.Sprintf("%s (rewrite failed after %d attempts)", summary.Source, summary.Attempts)
	}
	for _, line := range renderSectionHeader("Generated post", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, summary.RunID, colorize))
	fmt.Fprintln(out, renderStatusLine("Route", statusInfo, fmt.Sprintf("%s / %s", summary.Variant, summary.Route), colorize))
	fmt.Fprintln(out, renderStatusLine("Seed", statusInfo, strconv.FormatUint(summary.Seed, 10), colorize))
	fmt.Fprintln(out, renderStatusLine("Copy", kind, source, colorize))
	fmt.Fprintln(out, renderStatusLine("Slides", statusInfo, strconv.Itoa(summary.Slides), colorize))
	fmt.Fprintln(out, renderStatusLine("Output", statusOK, summary.OutputPath, colorize))
	if summary.PreviewPath != "" {
		fmt.Fprintln(out, renderStatusLine("Preview", statusOK, summary.PreviewPath, colorize))
	}
}
