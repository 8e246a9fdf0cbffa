package brief

import "time"

// Article is a single search result returned by the news API.
type Article struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// ArticleSummary pairs an article with its generated summary.
type ArticleSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Section holds the surviving summaries for one configured topic.
type Section struct {
	Topic    string           `json:"topic"`
	Articles []ArticleSummary `json:"articles"`
}

// Brief is the aggregate output of one cycle. Sections appear in topic
// processing order; a topic that produced nothing keeps an empty section.
// Each cycle builds a fresh Brief; briefs are never merged across cycles.
type Brief struct {
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// TotalArticles counts the summaries across all sections.
func (b Brief) TotalArticles() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Articles)
	}
	return n
}
