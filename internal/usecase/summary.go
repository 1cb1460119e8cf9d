package usecase

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-search/internal/domain"
)

// unknownLanguage groups repositories without a reported language.
const unknownLanguage = "(none)"

// Summarize computes aggregate figures for a page of results.
// An empty page yields a zero summary.
func Summarize(repos []domain.Repository) domain.PageSummary {
	summary := domain.PageSummary{Count: len(repos), Languages: []domain.LanguageCount{}}
	if len(repos) == 0 {
		return summary
	}

	starData := make(stats.Float64Data, 0, len(repos))
	forkData := make(stats.Float64Data, 0, len(repos))
	languageCounts := make(map[string]int)
	for _, repo := range repos {
		starData = append(starData, float64(repo.StarsCount))
		forkData = append(forkData, float64(repo.ForksCount))
		lang := repo.LanguageName()
		if lang == "" {
			lang = unknownLanguage
		}
		languageCounts[lang]++
	}

	// The inputs are non-empty, so stats only fails on empty data and these errors can be ignored.
	summary.MeanStars, _ = starData.Mean()
	summary.MedianStars, _ = starData.Median()
	summary.MaxStars, _ = starData.Max()
	summary.MeanForks, _ = forkData.Mean()
	summary.MedianForks, _ = forkData.Median()

	for lang, count := range languageCounts {
		summary.Languages = append(summary.Languages, domain.LanguageCount{Language: lang, Count: count})
	}
	// Most used first, then by name for consistent output.
	sort.Slice(summary.Languages, func(i, j int) bool {
		a, b := summary.Languages[i], summary.Languages[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Language < b.Language
	})
	return summary
}
