// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// License is the license reported for a repository.
type License struct {
	Name string `json:"name"`
}

// Repository is a single search result item.
// It is treated as immutable once received from the API.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Language    *string   `json:"language"`
	ForksCount  int       `json:"forks_count"`
	StarsCount  int       `json:"stargazers_count"`
	UpdatedAt   time.Time `json:"updated_at"`
	Description *string   `json:"description"`
	License     *License  `json:"license"`
}

// LanguageName returns the repository language, or an empty string when the API reported none.
func (r Repository) LanguageName() string {
	if r.Language == nil {
		return ""
	}
	return *r.Language
}

// DescriptionText returns the description, or an empty string when it is null.
func (r Repository) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// LicenseName returns the license name, or an empty string when no license is set.
func (r Repository) LicenseName() string {
	if r.License == nil {
		return ""
	}
	return r.License.Name
}

// SearchResult is one page of repositories plus the total number of matches for the query.
type SearchResult struct {
	Items      []Repository `json:"items"`
	TotalCount int          `json:"total_count"`
}

// RepositoryDetails is the extended view of a repository shown in the side panel.
type RepositoryDetails struct {
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	HomepageURL     string    `json:"homepage_url,omitempty"`
	StarsCount      int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	Language        string    `json:"language,omitempty"`
	License         string    `json:"license,omitempty"`
	Topics          []string  `json:"topics"`
	Archived        bool      `json:"archived"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SplitFullName splits "owner/name" into its two parts.
func SplitFullName(fullName string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository name %q: expected owner/name", fullName)
	}
	return owner, name, nil
}
