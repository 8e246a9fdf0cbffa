package brief

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"newsbrief/internal/telemetry"
)

// searchDateLayout is the date-filter format the search API expects.
const searchDateLayout = "01/02/2006"

// Searcher fetches recent articles for a query within an inclusive date
// window. Dates are formatted MM/DD/YYYY.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, afterDate, beforeDate string) ([]Article, error)
}

// Summarizer generates a short completion for the given prompt.
type Summarizer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Builder assembles a Brief from configured topics, one topic at a time.
// Fetch failures are isolated per topic and summary failures per article;
// Build fails only when its context is cancelled.
type Builder struct {
	searcher   Searcher
	summarizer Summarizer
	metrics    *telemetry.Metrics
	logger     *log.Logger

	querySuffix   string
	summaryPrompt string
	now           func() time.Time
}

// NewBuilder wires a Builder. metrics may be nil.
func NewBuilder(searcher Searcher, summarizer Summarizer, metrics *telemetry.Metrics, logger *log.Logger, querySuffix, summaryPrompt string) *Builder {
	if logger == nil {
		logger = log.New(log.Writer(), "[BRIEF] ", log.LstdFlags)
	}
	return &Builder{
		searcher:      searcher,
		summarizer:    summarizer,
		metrics:       metrics,
		logger:        logger,
		querySuffix:   querySuffix,
		summaryPrompt: summaryPrompt,
		now:           time.Now,
	}
}

// Build runs one fetch/dedupe/summarize pass over topics, in order, and
// returns the assembled Brief. Every topic keeps a section even when it
// produced no articles. daysBack is taken as given; validating it is the
// caller's job.
func (b *Builder) Build(ctx context.Context, topics []string, articlesPerTopic, daysBack int) (Brief, error) {
	now := b.now()
	after := now.AddDate(0, 0, -daysBack).Format(searchDateLayout)
	before := now.Format(searchDateLayout)

	out := Brief{GeneratedAt: now, Sections: make([]Section, 0, len(topics))}
	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return Brief{}, err
		}
		b.logger.Printf("processing %s...", topic)
		section, err := b.buildSection(ctx, topic, articlesPerTopic, after, before)
		if err != nil {
			return Brief{}, err
		}
		out.Sections = append(out.Sections, section)
	}
	return out, nil
}

// buildSection handles one topic. The returned error is non-nil only for
// context cancellation; everything else degrades to a smaller section.
func (b *Builder) buildSection(ctx context.Context, topic string, articlesPerTopic int, after, before string) (Section, error) {
	section := Section{Topic: topic, Articles: []ArticleSummary{}}

	query := topic
	if b.querySuffix != "" {
		query = topic + " " + b.querySuffix
	}
	b.logger.Printf("searching %q from %s to %s", query, after, before)

	articles, err := b.searcher.Search(ctx, query, articlesPerTopic, after, before)
	if err != nil {
		if ctx.Err() != nil {
			return Section{}, ctx.Err()
		}
		b.metrics.FetchFailure()
		b.logger.Printf("warn: %v", &FetchError{Topic: topic, Err: err})
		return section, nil
	}

	if len(articles) == 0 {
		b.logger.Printf("no articles found for %s", topic)
		return section, nil
	}
	if len(articles) < articlesPerTopic {
		b.logger.Printf("found %d articles (requested %d)", len(articles), articlesPerTopic)
	}
	b.metrics.ArticlesFetched(len(articles))

	unique := dedupeByURL(articles)
	if len(unique) < len(articles) {
		b.logger.Printf("removed %d duplicate article(s)", len(articles)-len(unique))
	}

	for _, article := range unique {
		summary, err := b.summarize(ctx, article)
		if err != nil {
			if ctx.Err() != nil {
				return Section{}, ctx.Err()
			}
			b.metrics.SummaryFailure()
			b.logger.Printf("warn: %v", err)
			continue
		}
		section.Articles = append(section.Articles, ArticleSummary{
			Title:   article.Title,
			Summary: summary,
			URL:     article.URL,
			Snippet: article.Snippet,
		})
		b.metrics.ArticleSummarized()
	}

	b.logger.Printf("processed %d article(s) for %s", len(section.Articles), topic)
	return section, nil
}

// summarize builds the model input for one article and trims the response.
// Failures come back as *SummarizeError so the caller can tell them apart
// from cancellation.
func (b *Builder) summarize(ctx context.Context, article Article) (string, error) {
	prompt := fmt.Sprintf("%s\n\nTitle: %s\nContent: %s", b.summaryPrompt, article.Title, article.Snippet)
	text, err := b.summarizer.Complete(ctx, prompt)
	if err != nil {
		return "", &SummarizeError{Title: article.Title, Err: err}
	}
	return strings.TrimSpace(text), nil
}

// dedupeByURL drops articles whose exact URL was already seen in this
// batch, preserving first-seen order.
func dedupeByURL(articles []Article) []Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]Article, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.URL]; ok {
			continue
		}
		seen[a.URL] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}
