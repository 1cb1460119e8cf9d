package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/naka-gawa/repo-search/internal/store"
	"github.com/naka-gawa/repo-search/internal/usecase"
	"github.com/naka-gawa/repo-search/internal/view"
)

const browseHelp = `Commands:
  search <query>           search repositories (page is kept)
  sort <field> [order]     sort by stars, forks or updated; order asc or desc
  order <asc|desc>         change the sort order
  per-page <10|20|30>      change the page size
  next | prev | page <n>   move between pages
  select <row>             show the side panel for a row
  details                  load extended details for the selected row
  summary                  show star/fork statistics for the page
  show                     print the current screen again
  help                     show this help
  quit                     exit`

// session is an interactive browse session. Fetches run in the background and the
// screen is redrawn whenever the fetch status changes.
type session struct {
	out        io.Writer
	store      *store.Store
	browser    *usecase.Browser
	controller *usecase.Controller
	details    *usecase.DetailLoader
	opts       view.Options

	mu          sync.Mutex
	lastVersion uint64
	lastStatus  domain.Status
}

func newSession(out io.Writer, s *store.Store, controller *usecase.Controller, details *usecase.DetailLoader, opts view.Options) *session {
	return &session{
		out:        out,
		store:      s,
		browser:    usecase.NewBrowser(s, controller),
		controller: controller,
		details:    details,
		opts:       opts,
		lastStatus: s.Snapshot().Status,
	}
}

// onState redraws the screen on status transitions and drops out-of-order snapshots.
func (s *session) onState(st store.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Version <= s.lastVersion {
		return
	}
	s.lastVersion = st.Version
	if st.Status == s.lastStatus {
		return
	}
	s.lastStatus = st.Status
	view.RenderState(s.out, st, s.opts)
}

func (s *session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// run reads commands from in until EOF or quit, then waits for outstanding fetches.
// With fetchNow set, a search with the initial parameters starts right away.
func (s *session) run(ctx context.Context, in io.Reader, fetchNow bool) error {
	unsubscribe := s.store.Subscribe(s.onState)
	defer unsubscribe()
	defer s.controller.Wait()

	s.printf("%s\n", browseHelp)
	if fetchNow {
		s.controller.Dispatch(ctx)
	} else {
		s.mu.Lock()
		view.RenderState(s.out, s.store.Snapshot(), s.opts)
		s.mu.Unlock()
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.execute(ctx, fields[0], fields[1:]); err != nil {
			s.printf("Error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (s *session) execute(ctx context.Context, command string, args []string) error {
	switch command {
	case "search":
		s.browser.Submit(ctx, strings.Join(args, " "))
	case "sort":
		if len(args) == 0 || len(args) > 2 {
			return fmt.Errorf("usage: sort <stars|forks|updated> [asc|desc]")
		}
		field, err := domain.ParseSortField(args[0])
		if err != nil {
			return err
		}
		order := s.store.Query().SortOrder
		if len(args) == 2 {
			if order, err = domain.ParseSortOrder(args[1]); err != nil {
				return err
			}
		}
		s.browser.SortBy(ctx, field, order)
	case "order":
		if len(args) != 1 {
			return fmt.Errorf("usage: order <asc|desc>")
		}
		order, err := domain.ParseSortOrder(args[0])
		if err != nil {
			return err
		}
		s.browser.SortBy(ctx, s.store.Query().SortField, order)
	case "per-page":
		n, err := intArg(args, "per-page <10|20|30>")
		if err != nil {
			return err
		}
		return s.browser.ChangePerPage(ctx, n)
	case "next":
		if !s.browser.NextPage(ctx) {
			return fmt.Errorf("already on the last page")
		}
	case "prev":
		if !s.browser.PrevPage(ctx) {
			return fmt.Errorf("already on the first page")
		}
	case "page":
		n, err := intArg(args, "page <n>")
		if err != nil {
			return err
		}
		return s.browser.GoToPage(ctx, n)
	case "select":
		n, err := intArg(args, "select <row>")
		if err != nil {
			return err
		}
		repo, err := s.browser.Select(n)
		if err != nil {
			return err
		}
		s.mu.Lock()
		view.RenderAside(s.out, &repo)
		s.mu.Unlock()
	case "details":
		selected := s.store.Snapshot().Selected
		if selected == nil {
			return fmt.Errorf("no repository selected")
		}
		loaded, err := s.details.Load(ctx, []string{selected.FullName})
		if err != nil {
			return err
		}
		s.mu.Lock()
		view.RenderDetails(s.out, loaded[0])
		s.mu.Unlock()
	case "summary":
		st := s.store.Snapshot()
		if st.Status != domain.StatusSucceeded {
			return fmt.Errorf("no results to summarize")
		}
		s.mu.Lock()
		view.RenderSummary(s.out, usecase.Summarize(st.Results))
		s.mu.Unlock()
	case "show":
		s.mu.Lock()
		view.RenderState(s.out, s.store.Snapshot(), s.opts)
		s.mu.Unlock()
	case "help":
		s.printf("%s\n", browseHelp)
	default:
		return fmt.Errorf("unknown command %q, type help for a list", command)
	}
	return nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("usage: %s: %w", usage, err)
	}
	return n, nil
}

var browseCmd = &cobra.Command{
	Use:   "browse [query]",
	Short: "Starts an interactive search session",
	Long: `Starts an interactive session reading commands from standard input.
Searches, sorting and paging run in the background; the results table is redrawn
when a fetch completes. If a query is given, it is searched immediately.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		q, err := queryFromFlags(cmd, strings.Join(args, " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		a, err := newApp(cmd, q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		sess := newSession(cmd.OutOrStdout(), a.store, a.controller, a.detailLoader(), view.Options{ShowError: a.verbose})
		if err := sess.run(ctx, cmd.InOrStdin(), len(args) > 0); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read input: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	addQueryFlags(browseCmd)
}
