package domain

// LanguageCount is the number of repositories on a page using a language.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// PageSummary holds aggregate figures for the repositories currently shown.
type PageSummary struct {
	Count       int             `json:"count"`
	MeanStars   float64         `json:"mean_stars"`
	MedianStars float64         `json:"median_stars"`
	MaxStars    float64         `json:"max_stars"`
	MeanForks   float64         `json:"mean_forks"`
	MedianForks float64         `json:"median_forks"`
	Languages   []LanguageCount `json:"languages"`
}
