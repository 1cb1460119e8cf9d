package gateway

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/repo-search/internal/domain"
)

// repositoryDetailsQuery fetches the fields shown in the side panel.
type repositoryDetailsQuery struct {
	Repository struct {
		NameWithOwner   string
		Description     string
		URL             string `graphql:"url"`
		HomepageURL     string `graphql:"homepageUrl"`
		StargazerCount  int
		ForkCount       int
		IsArchived      bool
		UpdatedAt       githubv4.DateTime
		PrimaryLanguage struct {
			Name string
		}
		LicenseInfo struct {
			Name string
		}
		Issues struct {
			TotalCount int
		} `graphql:"issues(states: OPEN)"`
		RepositoryTopics struct {
			Nodes []struct {
				Topic struct {
					Name string
				}
			}
		} `graphql:"repositoryTopics(first: 20)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// FetchRepositoryDetails loads extended repository information from the GraphQL API.
func (g *GitHubGateway) FetchRepositoryDetails(ctx context.Context, owner, name string) (*domain.RepositoryDetails, error) {
	g.logger.Printf("Fetching details for %s/%s...\n", owner, name)
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}

	var q repositoryDetailsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for %s/%s: %w", owner, name, err)
	}

	repo := q.Repository
	topics := make([]string, 0, len(repo.RepositoryTopics.Nodes))
	for _, node := range repo.RepositoryTopics.Nodes {
		topics = append(topics, node.Topic.Name)
	}
	return &domain.RepositoryDetails{
		FullName:        repo.NameWithOwner,
		Description:     repo.Description,
		URL:             repo.URL,
		HomepageURL:     repo.HomepageURL,
		StarsCount:      repo.StargazerCount,
		ForksCount:      repo.ForkCount,
		OpenIssuesCount: repo.Issues.TotalCount,
		Language:        repo.PrimaryLanguage.Name,
		License:         repo.LicenseInfo.Name,
		Topics:          topics,
		Archived:        repo.IsArchived,
		UpdatedAt:       repo.UpdatedAt.Time,
	}, nil
}
