package usecase

import (
	"testing"

	"github.com/naka-gawa/repo-search/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	goLang, rust := "Go", "Rust"
	testCases := []struct {
		name     string
		repos    []domain.Repository
		expected domain.PageSummary
	}{
		{
			name:     "empty page",
			repos:    nil,
			expected: domain.PageSummary{Languages: []domain.LanguageCount{}},
		},
		{
			name: "mixed languages",
			repos: []domain.Repository{
				{StarsCount: 10, ForksCount: 1, Language: &goLang},
				{StarsCount: 20, ForksCount: 3, Language: &rust},
				{StarsCount: 60, ForksCount: 8, Language: &goLang},
				{StarsCount: 30, ForksCount: 4},
			},
			expected: domain.PageSummary{
				Count:       4,
				MeanStars:   30,
				MedianStars: 25,
				MaxStars:    60,
				MeanForks:   4,
				MedianForks: 3.5,
				Languages: []domain.LanguageCount{
					{Language: "Go", Count: 2},
					{Language: "(none)", Count: 1},
					{Language: "Rust", Count: 1},
				},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Summarize(tc.repos))
		})
	}
}
