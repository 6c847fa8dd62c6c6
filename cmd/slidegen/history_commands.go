package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"slidegen/internal/history"
)

type runSummary struct {
	RunID       string    `json:"run_id"`
	Variant     string    `json:"variant"`
	Route       string    `json:"route"`
	Source      string    `json:"source"`
	Attempts    int       `json:"attempts"`
	Seed        *uint64   `json:"seed,omitempty"`
	OutputPath  string    `json:"output_path"`
	PreviewPath string    `json:"preview_path,omitempty"`
	HookText    string    `json:"hook_text"`
	SlideCount  int       `json:"slide_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func summarizeRun(run history.Run) runSummary {
	return runSummary{
		RunID:       run.RunID,
		Variant:     run.Variant,
		Route:       run.Route,
		Source:      run.Source,
		Attempts:    run.Attempts,
		Seed:        run.Seed,
		OutputPath:  run.OutputPath,
		PreviewPath: run.PreviewPath,
		HookText:    run.HookText,
		SlideCount:  run.SlideCount,
		CreatedAt:   run.CreatedAt,
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded generation runs",
	}
	cmd.AddCommand(newHistoryListCommand(ctx))
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				summaries := make([]runSummary, 0, len(runs))
				for _, run := range runs {
					summaries = append(summaries, summarizeRun(run))
				}
				return writeJSON(cmd, summaries)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					run.Variant,
					run.Route,
					run.Source,
					strconv.Itoa(run.Attempts),
					strconv.Itoa(run.SlideCount),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Created", "Variant", "Route", "Source", "Attempts", "Slides"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var postOnly bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if postOnly {
				fmt.Fprintln(out, run.PostJSON)
				return nil
			}
			fmt.Fprintf(out, "Run:      %s\n", run.RunID)
			fmt.Fprintf(out, "Created:  %s\n", run.CreatedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Variant:  %s\n", run.Variant)
			fmt.Fprintf(out, "Route:    %s\n", run.Route)
			fmt.Fprintf(out, "Source:   %s (%d attempts)\n", run.Source, run.Attempts)
			if run.Seed != nil {
				fmt.Fprintf(out, "Seed:     %d\n", *run.Seed)
			}
			fmt.Fprintf(out, "Output:   %s\n", run.OutputPath)
			if run.PreviewPath != "" {
				fmt.Fprintf(out, "Preview:  %s\n", run.PreviewPath)
			}
			fmt.Fprintf(out, "Hook:     %s\n", run.HookText)
			fmt.Fprintf(out, "Slides:   %d\n", run.SlideCount)
			return nil
		},
	}

	cmd.Flags().BoolVar(&postOnly, "post", false, "Print the stored post JSON only")
	return cmd
}
