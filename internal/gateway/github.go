// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/repo-search/internal/domain"
)

// tokenType makes the oauth2 transport send "Authorization: token <credential>".
const tokenType = "token"

// Searcher runs a repository search for the given parameters.
type Searcher interface {
	SearchRepositories(ctx context.Context, q domain.Query) (*domain.SearchResult, error)
}

// DetailFetcher loads the extended information shown for a single repository.
type DetailFetcher interface {
	FetchRepositoryDetails(ctx context.Context, owner, name string) (*domain.RepositoryDetails, error)
}

// Options configures a GitHubGateway.
type Options struct {
	// SearchURL is the full URL of the repository search endpoint.
	SearchURL  string
	GraphQLURL string
	Token      string
	APIVersion string
}

// GitHubGateway implements Searcher and DetailFetcher against the GitHub API.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	searchURL     *url.URL
	apiVersion    string
	logger        *log.Logger
}

var (
	_ Searcher      = (*GitHubGateway)(nil)
	_ DetailFetcher = (*GitHubGateway)(nil)
)

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *log.Logger) (*GitHubGateway, error) {
	searchURL, err := url.Parse(opts.SearchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search URL: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: tokenType})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: ts},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient),
		searchURL:     searchURL,
		apiVersion:    opts.APIVersion,
		logger:        logger,
	}, nil
}

// EncodeSearchQuery renders q as the query string of a search request.
// Parameters are emitted in the fixed order q, sort, order, per_page, page.
func EncodeSearchQuery(q domain.Query) string {
	params := [][2]string{
		{"q", q.Term},
		{"sort", string(q.SortField)},
		{"order", string(q.SortOrder)},
		{"per_page", strconv.Itoa(q.PerPage)},
		{"page", strconv.Itoa(q.Page)},
	}
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

func (g *GitHubGateway) searchURLFor(q domain.Query) string {
	u := *g.searchURL
	if u.RawQuery != "" {
		u.RawQuery += "&" + EncodeSearchQuery(q)
	} else {
		u.RawQuery = EncodeSearchQuery(q)
	}
	return u.String()
}

// SearchRepositories issues a single GET against the search endpoint.
// Every failure is returned as a *SearchError.
func (g *GitHubGateway) SearchRepositories(ctx context.Context, q domain.Query) (*domain.SearchResult, error) {
	target := g.searchURLFor(q)
	g.logger.Printf("Searching repositories: %s\n", target)

	var opts []github.RequestOption
	if g.apiVersion != "" {
		opts = append(opts, github.WithVersion(g.apiVersion))
	}
	req, err := g.restClient.NewRequest(http.MethodGet, target, nil, opts...)
	if err != nil {
		return nil, &SearchError{Kind: KindNetwork, Err: fmt.Errorf("failed to build search request: %w", err)}
	}

	var result github.RepositoriesSearchResult
	if _, err := g.restClient.Do(ctx, req, &result); err != nil {
		return nil, classify(err)
	}
	if result.Total == nil {
		return nil, &SearchError{Kind: KindParse, Err: fmt.Errorf("response is missing total_count")}
	}

	items := make([]domain.Repository, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		if repo == nil {
			continue
		}
		items = append(items, toDomainRepository(repo))
	}
	g.logger.Printf("Received %d of %d repositories.\n", len(items), result.GetTotal())
	return &domain.SearchResult{Items: items, TotalCount: result.GetTotal()}, nil
}

func toDomainRepository(repo *github.Repository) domain.Repository {
	r := domain.Repository{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		Language:    repo.Language,
		ForksCount:  repo.GetForksCount(),
		StarsCount:  repo.GetStargazersCount(),
		UpdatedAt:   repo.GetUpdatedAt().Time,
		Description: repo.Description,
	}
	if license := repo.GetLicense(); license != nil {
		r.License = &domain.License{Name: license.GetName()}
	}
	return r
}
