package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/tickerpulse/internal/aggregator"
	"github.com/spacesedan/tickerpulse/internal/errs"
	"github.com/spacesedan/tickerpulse/internal/models"
	"github.com/spacesedan/tickerpulse/internal/sentiment"
)

type HandlerConfig struct {
	Series         aggregator.SeriesFetcher
	News           aggregator.NewsFetcher
	Social         aggregator.SocialFetcher
	Symbols        aggregator.SymbolResolver
	Bundles        aggregator.BundleSource
	Health         *HealthReporter
	RequestTimeout time.Duration
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Handler{cfg: cfg}
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
}

// pathTerm returns the trimmed {name} path value or an invalid input error.
func pathTerm(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.PathValue(name))
	if v == "" {
		return "", errs.InvalidInput(name + " is required")
	}
	return v, nil
}

func window(r *http.Request, def models.Window) (models.Window, error) {
	return models.ParseWindow(r.URL.Query().Get("timeRange"), def)
}

func (h *Handler) HandleStock(w http.ResponseWriter, r *http.Request) {
	symbol, err := pathTerm(r, "symbol")
	if err != nil {
		writeError(w, err)
		return
	}
	win, err := window(r, models.Window24h)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	points, err := h.cfg.Series.FetchSeries(ctx, symbol, win)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) HandleNews(w http.ResponseWriter, r *http.Request) {
	term, err := pathTerm(r, "searchTerm")
	if err != nil {
		writeError(w, err)
		return
	}
	win, err := window(r, models.Window7d)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	articles, err := h.cfg.News.FetchNews(ctx, term, win)
	if err != nil {
		writeError(w, err)
		return
	}
	if articles == nil {
		articles = []models.NewsArticle{}
	}
	writeJSON(w, http.StatusOK, articles)
}

func (h *Handler) HandleSocial(w http.ResponseWriter, r *http.Request) {
	term, err := pathTerm(r, "searchTerm")
	if err != nil {
		writeError(w, err)
		return
	}
	win, err := window(r, models.Window7d)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	res, err := h.cfg.Social.FetchPosts(ctx, term, win)
	if err != nil {
		writeError(w, errs.Ensure("reddit", err))
		return
	}
	if blocked, ok := res.(models.SocialBlocked); ok {
		writeJSON(w, http.StatusOK, models.SocialBlockedResponse{
			Posts:     []models.SocialPost{},
			Message:   blocked.Message,
			IsBlocked: true,
		})
		return
	}
	writeJSON(w, http.StatusOK, res.Items())
}

// HandleSentiment summarizes the social posts for a term.
func (h *Handler) HandleSentiment(w http.ResponseWriter, r *http.Request) {
	term, err := pathTerm(r, "searchTerm")
	if err != nil {
		writeError(w, err)
		return
	}
	win, err := window(r, models.Window7d)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	var posts []models.SocialPost
	if res, err := h.cfg.Social.FetchPosts(ctx, term, win); err == nil {
		posts = res.Items()
	}
	writeJSON(w, http.StatusOK, sentiment.Summarize(posts))
}

func (h *Handler) HandleBundle(w http.ResponseWriter, r *http.Request) {
	term, err := pathTerm(r, "searchTerm")
	if err != nil {
		writeError(w, err)
		return
	}
	win, err := window(r, models.Window7d)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	writeJSON(w, http.StatusOK, h.cfg.Bundles.GetBundle(ctx, term, win))
}

func (h *Handler) HandleSymbol(w http.ResponseWriter, r *http.Request) {
	query, err := pathTerm(r, "query")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	matches, err := h.cfg.Symbols.SearchSymbols(ctx, query)
	if err != nil {
		writeError(w, err)
		return
	}
	if matches == nil {
		matches = []models.SymbolMatch{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	writeJSON(w, http.StatusOK, h.cfg.Health.Report(ctx))
}
