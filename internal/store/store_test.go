package store

import (
	"sync"
	"testing"

	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRepos(ids ...int64) []domain.Repository {
	repos := make([]domain.Repository, 0, len(ids))
	for _, id := range ids {
		repos = append(repos, domain.Repository{ID: id, Name: "repo", FullName: "owner/repo"})
	}
	return repos
}

func TestNew_Defaults(t *testing.T) {
	s := New(domain.DefaultQuery())
	st := s.Snapshot()

	assert.Equal(t, domain.StatusIdle, st.Status)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 10, st.PerPage)
	assert.Equal(t, domain.SortByStars, st.SortField)
	assert.Equal(t, domain.Descending, st.SortOrder)
	assert.Empty(t, st.Error)
	assert.Empty(t, st.Results)
	assert.Zero(t, st.TotalCount)
	assert.Nil(t, st.Selected)
}

func TestSetters(t *testing.T) {
	s := New(domain.DefaultQuery())
	s.SetSearchTerm("react")
	s.SetPage(4)
	s.SetPerPage(30)
	s.SetSortField(domain.SortByForks)
	s.SetSortOrder(domain.Ascending)

	assert.Equal(t, domain.Query{
		Term:      "react",
		Page:      4,
		PerPage:   30,
		SortField: domain.SortByForks,
		SortOrder: domain.Ascending,
	}, s.Query())

	s.SetSort(domain.SortByUpdated, domain.Descending)
	q := s.Query()
	assert.Equal(t, domain.SortByUpdated, q.SortField)
	assert.Equal(t, domain.Descending, q.SortOrder)

	// Setters are pure state changes.
	assert.Equal(t, domain.StatusIdle, s.Snapshot().Status)
}

func TestBeginFetch_AlwaysLoadingWithClearedError(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(s *Store)
	}{
		{name: "from idle", setup: func(s *Store) {}},
		{name: "from failed", setup: func(s *Store) {
			s.FetchFailed(s.BeginFetch(), "boom")
		}},
		{name: "from succeeded", setup: func(s *Store) {
			s.FetchSucceeded(s.BeginFetch(), sampleRepos(1), 1)
		}},
		{name: "from loading", setup: func(s *Store) {
			s.BeginFetch()
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(domain.DefaultQuery())
			tc.setup(s)

			s.BeginFetch()

			st := s.Snapshot()
			assert.Equal(t, domain.StatusLoading, st.Status)
			assert.Empty(t, st.Error)
		})
	}
}

func TestBeginFetch_ReturnsIncreasingSequence(t *testing.T) {
	s := New(domain.DefaultQuery())
	first := s.BeginFetch()
	second := s.BeginFetch()
	assert.Greater(t, second, first)
}

func TestFetchSucceeded(t *testing.T) {
	s := New(domain.DefaultQuery())
	seq := s.BeginFetch()
	items := sampleRepos(1, 2, 3)

	require.True(t, s.FetchSucceeded(seq, items, 57))

	st := s.Snapshot()
	assert.Equal(t, domain.StatusSucceeded, st.Status)
	assert.Equal(t, items, st.Results)
	assert.Equal(t, 57, st.TotalCount)

	items[0].Name = "mutated"
	assert.Equal(t, "repo", s.Snapshot().Results[0].Name, "store must not alias the caller's slice")
}

func TestFetchFailed_KeepsPreviousResults(t *testing.T) {
	s := New(domain.DefaultQuery())
	s.FetchSucceeded(s.BeginFetch(), sampleRepos(1, 2), 2)

	seq := s.BeginFetch()
	require.True(t, s.FetchFailed(seq, "network down"))

	st := s.Snapshot()
	assert.Equal(t, domain.StatusFailed, st.Status)
	assert.Equal(t, "network down", st.Error)
	assert.Equal(t, sampleRepos(1, 2), st.Results)
	assert.Equal(t, 2, st.TotalCount)
}

func TestFetchFailed_DefaultMessage(t *testing.T) {
	s := New(domain.DefaultQuery())
	s.FetchFailed(s.BeginFetch(), "")
	assert.Equal(t, DefaultFailureMessage, s.Snapshot().Error)
}

func TestStaleCompletionsAreDiscarded(t *testing.T) {
	s := New(domain.DefaultQuery())
	older := s.BeginFetch()
	newer := s.BeginFetch()

	require.True(t, s.FetchSucceeded(newer, sampleRepos(2), 1))
	assert.False(t, s.FetchSucceeded(older, sampleRepos(1), 1))
	assert.False(t, s.FetchFailed(older, "late failure"))

	st := s.Snapshot()
	assert.Equal(t, domain.StatusSucceeded, st.Status)
	assert.Equal(t, sampleRepos(2), st.Results)
	assert.Empty(t, st.Error)
}

func TestSelect(t *testing.T) {
	s := New(domain.DefaultQuery())
	s.FetchSucceeded(s.BeginFetch(), sampleRepos(10, 20), 2)

	assert.False(t, s.Select(99))
	assert.Nil(t, s.Snapshot().Selected)

	require.True(t, s.Select(20))
	selected := s.Snapshot().Selected
	require.NotNil(t, selected)
	assert.Equal(t, int64(20), selected.ID)

	s.ClearSelection()
	assert.Nil(t, s.Snapshot().Selected)
}

func TestSubscribe(t *testing.T) {
	s := New(domain.DefaultQuery())
	var got []State
	unsubscribe := s.Subscribe(func(st State) { got = append(got, st) })

	seq := s.BeginFetch()
	s.FetchSucceeded(seq, sampleRepos(1, 2, 3), 57)

	require.Len(t, got, 2)
	assert.Equal(t, domain.StatusLoading, got[0].Status)
	assert.Equal(t, domain.StatusSucceeded, got[1].Status)
	assert.Len(t, got[1].Results, 3)
	assert.Equal(t, 57, got[1].TotalCount)
	assert.Greater(t, got[1].Version, got[0].Version)

	unsubscribe()
	s.SetPage(2)
	assert.Len(t, got, 2)
}

// Observers never see results and total count from different fetches.
func TestFetchSucceeded_AtomicForObservers(t *testing.T) {
	s := New(domain.DefaultQuery())
	var mu sync.Mutex
	var violations int
	s.Subscribe(func(st State) {
		if st.Status == domain.StatusSucceeded && len(st.Results) != st.TotalCount {
			mu.Lock()
			violations++
			mu.Unlock()
		}
	})

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ids := make([]int64, n)
			for j := range ids {
				ids[j] = int64(j)
			}
			seq := s.BeginFetch()
			s.FetchSucceeded(seq, sampleRepos(ids...), n)
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Zero(t, violations)
	st := s.Snapshot()
	if st.Status == domain.StatusSucceeded {
		assert.Equal(t, st.TotalCount, len(st.Results))
	}
}
