package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/naka-gawa/repo-search/internal/usecase"
	"github.com/naka-gawa/repo-search/internal/view"
)

// searchOutput is the JSON shape of a search.
type searchOutput struct {
	Query      domain.Query        `json:"query"`
	TotalCount int                 `json:"total_count"`
	TotalPages int                 `json:"total_pages"`
	Items      []domain.Repository `json:"items"`
	Selected   *domain.Repository  `json:"selected,omitempty"`
	Summary    *domain.PageSummary `json:"summary,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Searches repositories and prints one page of results",
	Long: `Searches GitHub repositories for the query and prints one page of results as a table,
or as JSON with --json. The query uses GitHub search syntax, e.g. "language:go cli".`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		q, err := queryFromFlags(cmd, strings.Join(args, " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		selectRow, _ := cmd.Flags().GetInt("select")
		withSummary, _ := cmd.Flags().GetBool("summary")

		a, err := newApp(cmd, q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		a.controller.TriggerFetch(ctx)
		st := a.store.Snapshot()
		if st.Status == domain.StatusFailed {
			view.RenderState(os.Stderr, st, view.Options{ShowError: a.verbose})
			os.Exit(1)
		}

		if selectRow > 0 {
			if _, err := usecase.NewBrowser(a.store, a.controller).Select(selectRow); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			st = a.store.Snapshot()
		}

		if !asJSON {
			view.RenderState(os.Stdout, st, view.Options{ShowSummary: withSummary})
			return
		}
		out := searchOutput{
			Query:      st.Query,
			TotalCount: st.TotalCount,
			TotalPages: st.TotalPages(),
			Items:      st.Results,
			Selected:   st.Selected,
		}
		if withSummary {
			summary := usecase.Summarize(st.Results)
			out.Summary = &summary
		}
		if err := view.WriteJSON(os.Stdout, out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addQueryFlags(searchCmd)
	searchCmd.Flags().Bool("json", false, "Print the results as JSON")
	searchCmd.Flags().Int("select", 0, "Show the side panel for this row (1-based)")
	searchCmd.Flags().Bool("summary", false, "Print star/fork statistics for the page")
}
