package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"slidegen/internal/catalog"
	"slidegen/internal/config"
	"slidegen/internal/organizer"
	"slidegen/internal/services"
	"slidegen/internal/textutil"
)

type organizeOptions struct {
	source       string
	variant      string
	allowUnknown bool
	dryRun       bool
	overwrite    bool
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var opts organizeOptions

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Import a folder or zip of raw images into indexed entity folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "Directory or .zip archive to import")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "Built-in catalog variant (overrides config)")
	cmd.Flags().BoolVar(&opts.allowUnknown, "allow-unknown", false, "Create folders for names the catalog does not know")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report what would be copied without writing")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace existing destination images")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runOrganize(cmd *cobra.Command, ctx *commandContext, opts organizeOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cat, err := ctx.catalog(opts.variant)
	if err != nil {
		return err
	}
	source, err := config.ExpandPath(strings.TrimSpace(opts.source))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "organize", "invalid --source", err)
	}
	logger, err := ctx.logger("")
	if err != nil {
		return err
	}

	report, err := organizer.Import(cmd.Context(), organizer.Options{
		Source:       source,
		DestRoot:     filepath.Join(cfg.Paths.AssetsDir, cat.ImageRoot),
		Known:        organizer.KnownFromCatalog(cat),
		AllowUnknown: opts.allowUnknown,
		Overwrite:    opts.overwrite,
		DryRun:       opts.dryRun,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := "Copied"
	if opts.dryRun {
		verb = "Would copy"
	}
	fmt.Fprintf(out, "%s %d images into %d folders\n", verb, len(report.Copied), len(report.Entities()))
	if len(report.Copied) > 0 {
		fmt.Fprintln(out, renderTable([]string{"Folder", "Entity", "Images"}, folderRows(cat, report),
			[]columnAlignment{alignLeft, alignLeft, alignRight}))
	}
	if len(report.Skipped) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(report.Skipped))
	for _, skipped := range report.Skipped {
		rows = append(rows, []string{skipped.Source, skipped.Reason})
	}
	fmt.Fprintf(out, "Skipped %d files\n", len(report.Skipped))
	fmt.Fprintln(out, renderTable([]string{"File", "Reason"}, rows, nil))
	return nil
}

// folderRows counts copied images per destination folder. Folders the catalog
// does not define are labeled from the folded key and marked new.
func folderRows(cat *catalog.Catalog, report organizer.Report) [][]string {
	names := make(map[string]string, len(cat.Entities))
	for _, entity := range cat.Entities {
		folder := entity.Folder
		if folder == "" {
			folder = entity.ID
		}
		names[folder] = entity.Name
	}
	counts := make(map[string]int)
	for _, copied := range report.Copied {
		counts[copied.Entity]++
	}
	rows := make([][]string, 0, len(counts))
	for _, folder := range report.Entities() {
		name, ok := names[folder]
		if !ok {
			name = textutil.DisplayName(folder) + " (new)"
		}
		rows = append(rows, []string{folder, name, strconv.Itoa(counts[folder])})
	}
	return rows
}
