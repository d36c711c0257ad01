package instagram

import (
	"context"
	"fmt"
	"log"
)

// EmbedFetcher is the part of the embed service the warmer needs.
// An interface so tests can count invocations.
type EmbedFetcher interface {
	GetEmbedData(ctx context.Context, postURL string, useCache bool) EmbedResult
}

// ActivePostURLProvider supplies the URLs of all active curated posts.
type ActivePostURLProvider interface {
	GetActivePostURLs(ctx context.Context) ([]string, error)
}

// WarmResult tallies a warming batch.
type WarmResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// Warmer pre-populates the embed cache. Warming is sequential by
// design: it runs as an out-of-band maintenance task, not on a
// user-facing path.
type Warmer struct {
	fetcher EmbedFetcher
	posts   ActivePostURLProvider
}

func NewWarmer(fetcher EmbedFetcher, posts ActivePostURLProvider) *Warmer {
	return &Warmer{fetcher: fetcher, posts: posts}
}

// Warm fetches each URL with the cache bypassed, which both refreshes
// and re-populates the entry. One failure never aborts the batch.
func (w *Warmer) Warm(ctx context.Context, postURLs []string) WarmResult {
	result := WarmResult{Errors: []string{}}

	for _, postURL := range postURLs {
		embed := w.fetcher.GetEmbedData(ctx, postURL, false)
		if embed.Success {
			result.Success++
			continue
		}
		result.Failed++
		msg := embed.Error
		if msg == "" {
			msg = "Unknown error"
		}
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", postURL, msg))
	}

	log.Printf("[CacheWarmer] Cache warming completed: %d success, %d failed", result.Success, result.Failed)
	return result
}

// WarmActive warms the cache for every active curated post.
func (w *Warmer) WarmActive(ctx context.Context) (WarmResult, error) {
	urls, err := w.posts.GetActivePostURLs(ctx)
	if err != nil {
		return WarmResult{}, fmt.Errorf("load active post urls: %w", err)
	}
	return w.Warm(ctx, urls), nil
}
