package brief

import "fmt"

// FetchError reports a failed article search for one topic. The builder
// records it and moves on; one topic's failure never aborts the cycle.
type FetchError struct {
	Topic string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching articles for topic %q: %v", e.Topic, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SummarizeError reports a failed summary for one article. The builder
// drops the article and continues with the rest of the topic.
type SummarizeError struct {
	Title string
	Err   error
}

func (e *SummarizeError) Error() string {
	return fmt.Sprintf("summarizing article %q: %v", e.Title, e.Err)
}

func (e *SummarizeError) Unwrap() error { return e.Err }
