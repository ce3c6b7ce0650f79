package clients

import "time"

const (
	MAX_RETRIES     = 3
	INITIAL_BACKOFF = 500 * time.Millisecond
	MAX_BACKOFF     = 4 * time.Second
	USER_AGENT      = "tickerpulse/1.0 (+https://github.com/spacesedan/tickerpulse)"

	SOURCE_FINNHUB = "finnhub"
	SOURCE_NEWSAPI = "newsapi"
	SOURCE_REDDIT  = "reddit"
	SOURCE_OPENAI  = "openai"
	SOURCE_VALKEY  = "valkey"
)
