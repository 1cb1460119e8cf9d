package usecase

import (
	"context"
	"fmt"

	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/naka-gawa/repo-search/internal/store"
)

// Fetcher starts a fetch with the store's current parameters.
// *Controller satisfies it through Dispatch.
type Fetcher interface {
	Dispatch(ctx context.Context)
}

// Browser implements the user actions of the search screen. Each action updates
// the query parameters and then starts a fetch.
type Browser struct {
	store   *store.Store
	fetcher Fetcher
}

// NewBrowser creates a new Browser instance.
func NewBrowser(s *store.Store, fetcher Fetcher) *Browser {
	return &Browser{store: s, fetcher: fetcher}
}

// Submit searches for term. The current page is kept.
func (b *Browser) Submit(ctx context.Context, term string) {
	b.store.SetSearchTerm(term)
	b.fetcher.Dispatch(ctx)
}

// SortBy sorts by field in the given order. Field and order are set one after the other.
func (b *Browser) SortBy(ctx context.Context, field domain.SortField, order domain.SortOrder) {
	b.store.SetSortField(field)
	b.store.SetSortOrder(order)
	b.fetcher.Dispatch(ctx)
}

// ChangePerPage switches to a page size from domain.PerPageOptions.
func (b *Browser) ChangePerPage(ctx context.Context, n int) error {
	if err := domain.ValidatePerPage(n); err != nil {
		return err
	}
	b.store.SetPerPage(n)
	b.fetcher.Dispatch(ctx)
	return nil
}

// NextPage moves one page forward if there is one. It reports whether a fetch was started.
func (b *Browser) NextPage(ctx context.Context) bool {
	st := b.store.Snapshot()
	if st.Page >= st.TotalPages() {
		return false
	}
	b.store.SetPage(st.Page + 1)
	b.fetcher.Dispatch(ctx)
	return true
}

// PrevPage moves one page back unless already on the first page.
func (b *Browser) PrevPage(ctx context.Context) bool {
	st := b.store.Snapshot()
	if st.Page <= 1 {
		return false
	}
	b.store.SetPage(st.Page - 1)
	b.fetcher.Dispatch(ctx)
	return true
}

// GoToPage jumps to page n, which must lie within the known page range.
func (b *Browser) GoToPage(ctx context.Context, n int) error {
	st := b.store.Snapshot()
	if total := st.TotalPages(); n < 1 || n > total {
		return fmt.Errorf("page %d is out of range: have %d page(s)", n, total)
	}
	b.store.SetPage(n)
	b.fetcher.Dispatch(ctx)
	return nil
}

// Select marks the 1-based row of the current results as selected.
func (b *Browser) Select(row int) (domain.Repository, error) {
	st := b.store.Snapshot()
	if row < 1 || row > len(st.Results) {
		return domain.Repository{}, fmt.Errorf("row %d is out of range: have %d result(s)", row, len(st.Results))
	}
	repo := st.Results[row-1]
	if !b.store.Select(repo.ID) {
		return domain.Repository{}, fmt.Errorf("repository %s is no longer in the results", repo.FullName)
	}
	return repo, nil
}
