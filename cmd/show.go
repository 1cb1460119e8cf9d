package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/naka-gawa/repo-search/internal/view"
)

var showCmd = &cobra.Command{
	Use:   "show owner/name [owner/name...]",
	Short: "Shows details for one or more repositories",
	Long:  `Loads the details panel (description, topics, license, open issues) for each repository from the GitHub GraphQL API.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newApp(cmd, domain.DefaultQuery())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		details, err := a.detailLoader().Load(ctx, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load repository details: %v\n", err)
			os.Exit(1)
		}

		if asJSON {
			if err := view.WriteJSON(os.Stdout, details); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		for i, d := range details {
			if i > 0 {
				fmt.Println()
			}
			view.RenderDetails(os.Stdout, d)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("json", false, "Print the details as JSON")
}
