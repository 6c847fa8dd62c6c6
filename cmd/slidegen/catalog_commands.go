package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"slidegen/internal/catalog"
	"slidegen/internal/preflight"
	"slidegen/internal/services"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the active slideshow catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog(variant)
			if err != nil {
				return err
			}
			printCatalog(cmd, cat)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&variant, "variant", "", "Built-in catalog variant (overrides config)")

	cmd.AddCommand(&cobra.Command{
		Use:         "list",
		Short:       "List built-in variants",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, id := range catalog.BuiltinIDs() {
				cat, err := catalog.Builtin(id)
				if err != nil {
					return err
				}
				rows = append(rows, []string{cat.ID, cat.Name, strconv.Itoa(len(cat.Routes)), strconv.Itoa(len(cat.Entities))})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Routes", "Entities"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight}))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Check that every image folder the catalog needs is populated",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := ctx.catalog(variant)
			if err != nil {
				return err
			}
			result := preflight.CheckCoverage(cat.ID, cfg.Paths.AssetsDir, cat)
			out := cmd.OutOrStdout()
			kind := statusOK
			if !result.Passed {
				kind = statusError
			}
			fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, shouldColorize(out)))
			if !result.Passed {
				return services.Wrap(services.ErrAssetMissing, "cli", "catalog verify", "image coverage incomplete", errors.New(result.Detail))
			}
			return nil
		},
	})

	return cmd
}

func printCatalog(cmd *cobra.Command, cat *catalog.Catalog) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader(fmt.Sprintf("%s (%s)", cat.Name, cat.ID), colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Image root:      %s\n", cat.ImageRoot)
	fmt.Fprintf(out, "Image selection: %s\n", cat.ImageSelection)
	fmt.Fprintf(out, "Hook images:     %s\n", yesNo(cat.HookImageDir != ""))
	fmt.Fprintf(out, "Call to action:  %s\n", yesNo(cat.HasCTA()))
	if designated := cat.DesignatedEntity(); designated != "" {
		fmt.Fprintf(out, "Placement:       %s never in %s\n", designated, cat.ExcludedCategory())
	}
	fmt.Fprintln(out)

	routeRows := make([][]string, 0, len(cat.Routes))
	for _, route := range cat.Routes {
		shape := strings.Join(route.Sequence, " > ")
		if route.Sampled() {
			shape = fmt.Sprintf("sample %d", route.SampleSize)
		}
		routeRows = append(routeRows, []string{route.ID, shape, strconv.Itoa(len(route.Hooks))})
	}
	fmt.Fprintln(out, renderTable([]string{"Route", "Categories", "Hooks"}, routeRows,
		[]columnAlignment{alignLeft, alignLeft, alignRight}))

	categoryRows := make([][]string, 0, len(cat.Categories))
	for _, category := range cat.Categories {
		entities := strings.Join(category.Entities, ", ")
		if category.CTA {
			entities += " (cta)"
		}
		categoryRows = append(categoryRows, []string{category.ID, category.Label, entities})
	}
	fmt.Fprintln(out, renderTable([]string{"Category", "Label", "Entities"}, categoryRows, nil))

	entityRows := make([][]string, 0, len(cat.Entities))
	for _, entity := range cat.Entities {
		entityRows = append(entityRows, []string{entity.ID, entity.Name, entity.Folder})
	}
	fmt.Fprintln(out, renderTable([]string{"Entity", "Name", "Folder"}, entityRows, nil))
}
