package models

import "time"

type NewsAPIEverythingResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code,omitempty"`
	Message      string           `json:"message,omitempty"`
	TotalResults int              `json:"totalResults"`
	Articles     []NewsAPIArticle `json:"articles"`
}

type NewsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	UrlToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// NewsQuery is one query variant sent to the everything endpoint.
type NewsQuery struct {
	Q        string
	From     time.Time
	PageSize int
}

type NewsSource struct {
	Name string `json:"name"`
}

type NewsArticle struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	PublishedAt time.Time  `json:"publishedAt"`
	Source      NewsSource `json:"source"`
	AISummary   string     `json:"aiSummary,omitempty"`
}
