package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/naka-gawa/repo-search/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// DefaultDetailConcurrency is the number of detail requests allowed in flight at once.
const DefaultDetailConcurrency = 4

// DetailLoader loads side panel details for one or more repositories.
type DetailLoader struct {
	fetcher gateway.DetailFetcher
	limit   int
	logger  *log.Logger
}

// NewDetailLoader creates a DetailLoader. A limit below 1 uses DefaultDetailConcurrency.
func NewDetailLoader(fetcher gateway.DetailFetcher, limit int, logger *log.Logger) *DetailLoader {
	if limit < 1 {
		limit = DefaultDetailConcurrency
	}
	return &DetailLoader{fetcher: fetcher, limit: limit, logger: logger}
}

// Load fetches details for each "owner/name" concurrently. Results keep the input order.
// The first failure cancels the remaining requests.
func (l *DetailLoader) Load(ctx context.Context, fullNames []string) ([]*domain.RepositoryDetails, error) {
	type target struct{ owner, name string }
	targets := make([]target, len(fullNames))
	for i, fullName := range fullNames {
		owner, name, err := domain.SplitFullName(fullName)
		if err != nil {
			return nil, err
		}
		targets[i] = target{owner: owner, name: name}
	}

	l.logger.Printf("Usecase: Loading details for %d repositories...\n", len(targets))
	results := make([]*domain.RepositoryDetails, len(targets))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(l.limit)
	for i, t := range targets {
		i, t := i, t
		eg.Go(func() error {
			details, err := l.fetcher.FetchRepositoryDetails(egCtx, t.owner, t.name)
			if err != nil {
				return fmt.Errorf("failed to load details for %s/%s: %w", t.owner, t.name, err)
			}
			results[i] = details
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	l.logger.Println("Usecase: Details loaded.")
	return results, nil
}
