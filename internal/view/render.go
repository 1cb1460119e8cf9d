// Package view renders store state for the terminal.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/naka-gawa/repo-search/internal/store"
	"github.com/naka-gawa/repo-search/internal/usecase"
)

const (
	welcomeMessage  = "Welcome! Enter a search query to find repositories."
	loadingMessage  = "Loading..."
	failureMessage  = "Failed to load data!"
	noSelection     = "Select a repository to see its details."
	updatedAtLayout = "2006-01-02"
)

// Options control what RenderState prints.
type Options struct {
	// ShowError adds the underlying error text to the failure message.
	ShowError bool
	// ShowSummary adds page statistics under the table.
	ShowSummary bool
}

// RenderState prints the screen for the current status: a welcome line, a loading
// line, the results with pagination and side panel, or the failure message.
// Stale results are not shown while the status is failed.
func RenderState(w io.Writer, st store.State, opts Options) {
	switch st.Status {
	case domain.StatusIdle:
		fmt.Fprintln(w, welcomeMessage)
	case domain.StatusLoading:
		fmt.Fprintln(w, loadingMessage)
	case domain.StatusSucceeded:
		RenderTable(w, st.Results)
		RenderPagination(w, st)
		if opts.ShowSummary {
			RenderSummary(w, usecase.Summarize(st.Results))
		}
		fmt.Fprintln(w)
		RenderAside(w, st.Selected)
	case domain.StatusFailed:
		if opts.ShowError && st.Error != "" {
			fmt.Fprintf(w, "%s (%s)\n", failureMessage, st.Error)
			return
		}
		fmt.Fprintln(w, failureMessage)
	}
}

// RenderTable prints the results table. Rows are numbered from 1 within the page.
func RenderTable(w io.Writer, repos []domain.Repository) {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tLANGUAGE\tFORKS\tSTARS\tUPDATED")
	for i, repo := range repos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			i+1,
			repo.FullName,
			orDash(repo.LanguageName()),
			repo.ForksCount,
			repo.StarsCount,
			formatDate(repo),
		)
	}
	tw.Flush()
}

// RenderPagination prints the page position, total and current sort.
func RenderPagination(w io.Writer, st store.State) {
	fmt.Fprintf(w, "Page %d of %d | %d repositories | %d per page | sorted by %s %s\n",
		st.Page, st.TotalPages(), st.TotalCount, st.PerPage, st.SortField, st.SortOrder)
}

// RenderAside prints the side panel for the selected repository.
func RenderAside(w io.Writer, repo *domain.Repository) {
	if repo == nil {
		fmt.Fprintln(w, noSelection)
		return
	}
	fmt.Fprintf(w, "%s  ★ %d\n", repo.Name, repo.StarsCount)
	if desc := repo.DescriptionText(); desc != "" {
		fmt.Fprintln(w, desc)
	}
	if license := repo.LicenseName(); license != "" {
		fmt.Fprintln(w, license)
	}
}

// RenderDetails prints the extended side panel loaded from the GraphQL API.
func RenderDetails(w io.Writer, d *domain.RepositoryDetails) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Repository:\t%s\n", d.FullName)
	if d.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", d.Description)
	}
	fmt.Fprintf(tw, "URL:\t%s\n", d.URL)
	if d.HomepageURL != "" {
		fmt.Fprintf(tw, "Homepage:\t%s\n", d.HomepageURL)
	}
	fmt.Fprintf(tw, "Stars:\t%d\n", d.StarsCount)
	fmt.Fprintf(tw, "Forks:\t%d\n", d.ForksCount)
	fmt.Fprintf(tw, "Open issues:\t%d\n", d.OpenIssuesCount)
	fmt.Fprintf(tw, "Language:\t%s\n", orDash(d.Language))
	fmt.Fprintf(tw, "License:\t%s\n", orDash(d.License))
	if len(d.Topics) > 0 {
		fmt.Fprintf(tw, "Topics:\t%s\n", strings.Join(d.Topics, ", "))
	}
	if d.Archived {
		fmt.Fprintf(tw, "Archived:\tyes\n")
	}
	fmt.Fprintf(tw, "Updated:\t%s\n", d.UpdatedAt.Format(updatedAtLayout))
	tw.Flush()
}

// RenderSummary prints page statistics.
func RenderSummary(w io.Writer, s domain.PageSummary) {
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "Stars: mean %.1f, median %.1f, max %.0f | Forks: mean %.1f, median %.1f\n",
		s.MeanStars, s.MedianStars, s.MaxStars, s.MeanForks, s.MedianForks)
	langs := make([]string, 0, len(s.Languages))
	for _, l := range s.Languages {
		langs = append(langs, fmt.Sprintf("%s (%d)", l.Language, l.Count))
	}
	fmt.Fprintf(w, "Languages: %s\n", strings.Join(langs, ", "))
}

// WriteJSON writes v as pretty-printed JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func formatDate(repo domain.Repository) string {
	if repo.UpdatedAt.IsZero() {
		return "-"
	}
	return repo.UpdatedAt.Format(updatedAtLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
