package models

import "time"

type RedditAPIResponse struct {
	Data RedditAPIData `json:"data"`
}

type RedditAPIData struct {
	After    string           `json:"after"`
	Children []RedditAPIChild `json:"children"`
}

type RedditAPIChild struct {
	Data RedditAPIChildData `json:"data"`
}

type RedditAPIChildData struct {
	Subreddit         string  `json:"subreddit"`
	Author            string  `json:"author"`
	Title             string  `json:"title"`
	Selftext          string  `json:"selftext"`
	Score             int     `json:"score"`
	CreatedUTC        float64 `json:"created_utc"`
	ID                string  `json:"id"`
	Permalink         string  `json:"permalink"`
	URL               string  `json:"url"`
	Over18            bool    `json:"over_18"`
	RemovedByCategory *string `json:"removed_by_category"`
}

type SocialPost struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	Description    string    `json:"description,omitempty"`
	Author         string    `json:"author"`
	Source         string    `json:"source"`
	CreatedAt      time.Time `json:"createdAt"`
	URL            string    `json:"url"`
	Score          int       `json:"score"`
	Platform       string    `json:"platform"`
	Sentiment      float64   `json:"sentiment"`
	SentimentLabel string    `json:"sentimentLabel"`
	Summary        string    `json:"aiSummary,omitempty"`
}

// SocialResult is either SocialOK or SocialBlocked.
type SocialResult interface {
	socialResult()
	// Items returns the posts, empty for SocialBlocked.
	Items() []SocialPost
}

type SocialOK struct {
	Posts []SocialPost
}

// SocialBlocked means no community source could be read at all.
type SocialBlocked struct {
	Message string
}

func (SocialOK) socialResult()      {}
func (SocialBlocked) socialResult() {}

func (r SocialOK) Items() []SocialPost {
	if r.Posts == nil {
		return []SocialPost{}
	}
	return r.Posts
}

func (SocialBlocked) Items() []SocialPost { return []SocialPost{} }

// SocialBlockedResponse is the wire shape of a blocked social request.
type SocialBlockedResponse struct {
	Posts     []SocialPost `json:"posts"`
	Message   string       `json:"message"`
	IsBlocked bool         `json:"isBlocked"`
}
