package models

import "time"

type SentimentSummary struct {
	Sentiment  float64 `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Total      int     `json:"total"`
	Positive   int     `json:"positive"`
	Negative   int     `json:"negative"`
	Neutral    int     `json:"neutral"`
}

// TimelinePoint correlates one stock sample with the news and posts that
// fall into its bucket.
type TimelinePoint struct {
	Timestamp        int64   `json:"timestamp"`
	StockPrice       float64 `json:"stockPrice"`
	NewsCount        int     `json:"newsCount"`
	PostCount        int     `json:"postCount"`
	AverageSentiment float64 `json:"averageSentiment"`
}

type BundleError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ResultBundle is everything the dashboard needs for one (term, window).
type ResultBundle struct {
	RequestID     string           `json:"requestId"`
	Term          string           `json:"term"`
	Symbol        string           `json:"symbol"`
	Window        Window           `json:"window"`
	StockPoints   []StockPoint     `json:"stockPoints"`
	Articles      []NewsArticle    `json:"articles"`
	Posts         []SocialPost     `json:"posts"`
	Sentiment     SentimentSummary `json:"sentiment"`
	SocialBlocked bool             `json:"socialBlocked"`
	Timeline      []TimelinePoint  `json:"timeline"`
	GeneratedAt   time.Time        `json:"generatedAt"`
	Error         *BundleError     `json:"error,omitempty"`
}

// SummaryKind selects the summarization prompt.
type SummaryKind string

const (
	SummaryArticle SummaryKind = "article"
	SummarySocial  SummaryKind = "social"
)
