package clients

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spacesedan/tickerpulse/config"
	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/models"
	"github.com/spacesedan/tickerpulse/internal/monitoring"
)

const summarizerSystemPrompt = "You are a financial analyst providing brief, factual summaries. " +
	"Focus on key points and market implications. Be concise and objective."

var summaryPrompts = map[models.SummaryKind]string{
	models.SummaryArticle: "Please provide a concise 2-3 sentence summary of this news article, focusing on the key financial implications:\n\n",
	models.SummarySocial:  "Please provide a 1-2 sentence summary of this social media discussion, focusing on the main sentiment and key points:\n\n",
}

// OpenAIClient produces the short aiSummary texts.
type OpenAIClient struct {
	Client *openai.Client
	model  string
}

func NewOpenAIClient(cfg config.SummarizerConfig) *OpenAIClient {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(1),
	)
	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", cfg.Model),
		slog.Duration("timeout", cfg.Timeout))

	return &OpenAIClient{Client: client, model: cfg.Model}
}

// Summarize returns a short summary of content. An empty completion is an
// error so callers can leave the summary unset.
func (o *OpenAIClient) Summarize(ctx context.Context, content string, kind models.SummaryKind) (string, error) {
	prompt, ok := summaryPrompts[kind]
	if !ok {
		prompt = summaryPrompts[models.SummaryArticle]
	}

	start := time.Now()
	completion, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarizerSystemPrompt),
			openai.UserMessage(prompt + content),
		}),
		Model:       openai.F(openai.ChatModel(o.model)),
		MaxTokens:   openai.Int(150),
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		monitoring.ObserveUpstream(SOURCE_OPENAI, statusOf(err), time.Since(start))
		slog.Warn("[OpenAIClient] Summary request failed",
			slog.String("kind", string(kind)),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", errs.Upstream(SOURCE_OPENAI, statusOf(err), err)
	}
	monitoring.ObserveUpstream(SOURCE_OPENAI, http.StatusOK, time.Since(start))

	if len(completion.Choices) == 0 {
		return "", errs.Upstream(SOURCE_OPENAI, http.StatusOK, errors.New("empty completion"))
	}
	summary := strings.TrimSpace(completion.Choices[0].Message.Content)
	if summary == "" {
		return "", errs.Upstream(SOURCE_OPENAI, http.StatusOK, errors.New("empty completion"))
	}
	return summary, nil
}

// HealthCheck reports whether the configured model is reachable.
func (o *OpenAIClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := o.Client.Models.Get(ctx, o.model); err != nil {
		slog.Warn("[OpenAIClient] Health check failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

func statusOf(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
