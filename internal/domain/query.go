package domain

import (
	"fmt"
	"slices"
	"strings"
)

// SortField is the field search results are ordered by.
type SortField string

const (
	SortByStars   SortField = "stars"
	SortByForks   SortField = "forks"
	SortByUpdated SortField = "updated"
)

// ParseSortField converts user input into a SortField.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByStars, SortByForks, SortByUpdated:
		return f, nil
	}
	return "", fmt.Errorf("invalid sort field %q: must be one of stars, forks, updated", s)
}

// SortOrder is the direction of the sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder converts user input into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case Ascending, Descending:
		return o, nil
	}
	return "", fmt.Errorf("invalid sort order %q: must be asc or desc", s)
}

// Status is the lifecycle of the most recent fetch.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// PerPageOptions are the page sizes offered to the user.
var PerPageOptions = []int{10, 20, 30}

// ValidatePerPage reports an error if n is not one of PerPageOptions.
func ValidatePerPage(n int) error {
	if !slices.Contains(PerPageOptions, n) {
		return fmt.Errorf("invalid page size %d: must be one of %v", n, PerPageOptions)
	}
	return nil
}

// Query holds the search parameters sent to the search API.
type Query struct {
	Term      string    `json:"q"`
	Page      int       `json:"page"`
	PerPage   int       `json:"per_page"`
	SortField SortField `json:"sort"`
	SortOrder SortOrder `json:"order"`
}

// DefaultQuery returns the parameters a new session starts with.
func DefaultQuery() Query {
	return Query{
		Page:      1,
		PerPage:   10,
		SortField: SortByStars,
		SortOrder: Descending,
	}
}

// TotalPages returns ceil(totalCount / perPage), or 0 when perPage is not positive.
func TotalPages(totalCount, perPage int) int {
	if perPage <= 0 || totalCount <= 0 {
		return 0
	}
	return (totalCount + perPage - 1) / perPage
}
