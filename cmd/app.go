package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-search/internal/config"
	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/naka-gawa/repo-search/internal/gateway"
	"github.com/naka-gawa/repo-search/internal/store"
	"github.com/naka-gawa/repo-search/internal/usecase"
)

// app is the composition root shared by the commands.
type app struct {
	verbose    bool
	logger     *log.Logger
	gateway    *gateway.GitHubGateway
	store      *store.Store
	controller *usecase.Controller
}

// newApp loads the configuration and wires the gateway, store and controller.
// The store starts with the query given by the command's flags.
func newApp(cmd *cobra.Command, q domain.Query) (*app, error) {
	// Get the verbose flag from the root command to set up the logger.
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if verbose {
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
	}

	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		SearchURL:  cfg.SearchURL,
		GraphQLURL: cfg.GraphQLURL,
		Token:      cfg.Token,
		APIVersion: cfg.APIVersion,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	s := store.New(q)
	return &app{
		verbose:    verbose,
		logger:     logger,
		gateway:    githubGateway,
		store:      s,
		controller: usecase.NewController(s, githubGateway, logger),
	}, nil
}

func (a *app) detailLoader() *usecase.DetailLoader {
	return usecase.NewDetailLoader(a.gateway, usecase.DefaultDetailConcurrency, a.logger)
}

// addQueryFlags registers the flags that set the initial search parameters.
func addQueryFlags(cmd *cobra.Command) {
	def := domain.DefaultQuery()
	cmd.Flags().IntP("page", "p", def.Page, "Page number to fetch")
	cmd.Flags().Int("per-page", def.PerPage, fmt.Sprintf("Results per page %v", domain.PerPageOptions))
	cmd.Flags().StringP("sort", "s", string(def.SortField), "Sort field (stars, forks, updated)")
	cmd.Flags().StringP("order", "o", string(def.SortOrder), "Sort order (asc, desc)")
}

// queryFromFlags validates the query flags and combines them with term.
func queryFromFlags(cmd *cobra.Command, term string) (domain.Query, error) {
	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	sortStr, _ := cmd.Flags().GetString("sort")
	orderStr, _ := cmd.Flags().GetString("order")

	if page < 1 {
		return domain.Query{}, fmt.Errorf("invalid page %d: must be 1 or greater", page)
	}
	if err := domain.ValidatePerPage(perPage); err != nil {
		return domain.Query{}, err
	}
	field, err := domain.ParseSortField(sortStr)
	if err != nil {
		return domain.Query{}, err
	}
	order, err := domain.ParseSortOrder(orderStr)
	if err != nil {
		return domain.Query{}, err
	}
	return domain.Query{
		Term:      term,
		Page:      page,
		PerPage:   perPage,
		SortField: field,
		SortOrder: order,
	}, nil
}
