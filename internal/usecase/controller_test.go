package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/naka-gawa/repo-search/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockSearcher is a mock implementation of the gateway.Searcher interface.
type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchRepositories(ctx context.Context, q domain.Query) (*domain.SearchResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func repos(n int) []domain.Repository {
	out := make([]domain.Repository, n)
	for i := range out {
		out[i] = domain.Repository{ID: int64(i + 1), Name: fmt.Sprintf("repo-%d", i+1), FullName: fmt.Sprintf("owner/repo-%d", i+1)}
	}
	return out
}

func TestController_TriggerFetch(t *testing.T) {
	testCases := []struct {
		name            string
		mockResult      *domain.SearchResult
		mockErr         error
		expectedStatus  domain.Status
		expectedResults int
		expectedTotal   int
		expectedError   string
	}{
		{
			name:            "happy path - results are applied",
			mockResult:      &domain.SearchResult{Items: repos(3), TotalCount: 57},
			expectedStatus:  domain.StatusSucceeded,
			expectedResults: 3,
			expectedTotal:   57,
		},
		{
			name:           "error case - failure is recorded, not returned",
			mockErr:        errors.New("github api error"),
			expectedStatus: domain.StatusFailed,
			expectedError:  "github api error",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := store.New(domain.DefaultQuery())
			require.Equal(t, domain.StatusIdle, s.Snapshot().Status)

			searcher := new(mockSearcher)
			searcher.On("SearchRepositories", mock.Anything, domain.DefaultQuery()).Return(tc.mockResult, tc.mockErr)
			controller := NewController(s, searcher, discardLogger())

			applied := controller.TriggerFetch(context.Background())

			assert.True(t, applied)
			st := s.Snapshot()
			assert.Equal(t, tc.expectedStatus, st.Status)
			assert.Len(t, st.Results, tc.expectedResults)
			assert.Equal(t, tc.expectedTotal, st.TotalCount)
			assert.Equal(t, tc.expectedError, st.Error)
			searcher.AssertExpectations(t)
		})
	}
}

func TestController_TriggerFetch_LoadingVisibleDuringRequest(t *testing.T) {
	s := store.New(domain.DefaultQuery())
	s.FetchFailed(s.BeginFetch(), "previous failure")

	searcher := new(mockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			st := s.Snapshot()
			assert.Equal(t, domain.StatusLoading, st.Status)
			assert.Empty(t, st.Error)
		}).
		Return(&domain.SearchResult{Items: repos(1), TotalCount: 1}, nil)

	NewController(s, searcher, discardLogger()).TriggerFetch(context.Background())
	assert.Equal(t, domain.StatusSucceeded, s.Snapshot().Status)
}

func TestController_TriggerFetch_UsesCurrentPerPage(t *testing.T) {
	s := store.New(domain.DefaultQuery())
	searcher := new(mockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.MatchedBy(func(q domain.Query) bool {
		return q.PerPage == 30
	})).Return(&domain.SearchResult{Items: repos(0), TotalCount: 0}, nil).Once()
	controller := NewController(s, searcher, discardLogger())

	s.SetPerPage(20)
	s.SetPerPage(30)
	controller.TriggerFetch(context.Background())

	searcher.AssertExpectations(t)
}

// gatedSearcher blocks each call until its gate for that term is released.
type gatedSearcher struct {
	started map[string]chan struct{}
	release map[string]chan struct{}
	results map[string]*domain.SearchResult
}

func newGatedSearcher(results map[string]*domain.SearchResult) *gatedSearcher {
	g := &gatedSearcher{
		started: make(map[string]chan struct{}),
		release: make(map[string]chan struct{}),
		results: results,
	}
	for term := range results {
		g.started[term] = make(chan struct{})
		g.release[term] = make(chan struct{})
	}
	return g
}

// SearchRepositories ignores cancellation so a slow response can still arrive late.
func (g *gatedSearcher) SearchRepositories(ctx context.Context, q domain.Query) (*domain.SearchResult, error) {
	close(g.started[q.Term])
	<-g.release[q.Term]
	return g.results[q.Term], nil
}

func TestController_LatestInitiatedFetchWins(t *testing.T) {
	s := store.New(domain.DefaultQuery())
	searcher := newGatedSearcher(map[string]*domain.SearchResult{
		"slow": {Items: repos(5), TotalCount: 500},
		"fast": {Items: repos(2), TotalCount: 20},
	})
	controller := NewController(s, searcher, discardLogger())

	var wg sync.WaitGroup
	var slowApplied, fastApplied bool

	s.SetSearchTerm("slow")
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowApplied = controller.TriggerFetch(context.Background())
	}()
	<-searcher.started["slow"]

	s.SetSearchTerm("fast")
	wg.Add(1)
	go func() {
		defer wg.Done()
		fastApplied = controller.TriggerFetch(context.Background())
	}()
	<-searcher.started["fast"]

	// The second request resolves first, then the first one resolves late.
	close(searcher.release["fast"])
	require.Eventually(t, func() bool { return s.Snapshot().Status == domain.StatusSucceeded }, timeout, tick)
	close(searcher.release["slow"])
	wg.Wait()

	assert.True(t, fastApplied)
	assert.False(t, slowApplied)
	st := s.Snapshot()
	assert.Equal(t, domain.StatusSucceeded, st.Status)
	assert.Len(t, st.Results, 2)
	assert.Equal(t, 20, st.TotalCount)
}

func TestController_NewFetchCancelsInFlight(t *testing.T) {
	s := store.New(domain.DefaultQuery())
	searcher := new(mockSearcher)
	cancelled := make(chan struct{})

	searcher.On("SearchRepositories", mock.Anything, mock.MatchedBy(func(q domain.Query) bool { return q.Term == "first" })).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
			close(cancelled)
		}).
		Return(nil, context.Canceled).Once()
	searcher.On("SearchRepositories", mock.Anything, mock.MatchedBy(func(q domain.Query) bool { return q.Term == "second" })).
		Return(&domain.SearchResult{Items: repos(1), TotalCount: 1}, nil).Once()
	controller := NewController(s, searcher, discardLogger())

	s.SetSearchTerm("first")
	controller.Dispatch(context.Background())
	require.Eventually(t, func() bool { return s.Snapshot().Status == domain.StatusLoading }, timeout, tick)

	s.SetSearchTerm("second")
	controller.Dispatch(context.Background())
	controller.Wait()

	<-cancelled
	st := s.Snapshot()
	assert.Equal(t, domain.StatusSucceeded, st.Status, "the cancelled request's failure must not be applied")
	assert.Len(t, st.Results, 1)
	searcher.AssertExpectations(t)
}
