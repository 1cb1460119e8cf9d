// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/naka-gawa/repo-search/internal/gateway"
	"github.com/naka-gawa/repo-search/internal/store"
)

// Controller drives the fetch lifecycle of a store.
// It is the only component that writes fetch outcomes into the store.
type Controller struct {
	store    *store.Store
	searcher gateway.Searcher
	logger   *log.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	activeSeq uint64
	wg        sync.WaitGroup
}

// NewController creates a new Controller instance.
func NewController(s *store.Store, searcher gateway.Searcher, logger *log.Logger) *Controller {
	return &Controller{
		store:    s,
		searcher: searcher,
		logger:   logger,
	}
}

// TriggerFetch runs one search with the store's current parameters and records the
// outcome. A request still in flight is cancelled first, and an outcome is only
// applied if no newer request has started. It reports whether the outcome was applied.
func (c *Controller) TriggerFetch(ctx context.Context) bool {
	c.mu.Lock()
	q := c.store.Query()
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	seq := c.store.BeginFetch()
	c.cancel = cancel
	c.activeSeq = seq
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.activeSeq == seq {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel()
	}()

	c.logger.Printf("Fetch #%d: started (q=%q page=%d per_page=%d sort=%s order=%s)\n",
		seq, q.Term, q.Page, q.PerPage, q.SortField, q.SortOrder)

	result, err := c.searcher.SearchRepositories(fetchCtx, q)
	if err != nil {
		if !c.store.FetchFailed(seq, err.Error()) {
			c.logger.Printf("Fetch #%d: discarding stale failure: %v\n", seq, err)
			return false
		}
		c.logger.Printf("Fetch #%d: failed: %v\n", seq, err)
		return true
	}

	if !c.store.FetchSucceeded(seq, result.Items, result.TotalCount) {
		c.logger.Printf("Fetch #%d: discarding stale response\n", seq)
		return false
	}
	c.logger.Printf("Fetch #%d: succeeded with %d of %d repositories\n", seq, len(result.Items), result.TotalCount)
	return true
}

// Dispatch runs TriggerFetch in the background.
func (c *Controller) Dispatch(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.TriggerFetch(ctx)
	}()
}

// Wait blocks until every dispatched fetch has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}
