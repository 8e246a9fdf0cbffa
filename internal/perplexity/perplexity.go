package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsbrief/internal/brief"
)

const defaultBaseURL = "https://api.perplexity.ai"

// Client wraps the search and chat-completion halves of the API behind
// one authenticated HTTP client. It satisfies both brief.Searcher and
// brief.Summarizer. Calls are not retried; the only timeout is the
// client's own default.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// message represents one chat turn on the wire.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type searchRequest struct {
	Query            string `json:"query"`
	MaxResults       int    `json:"max_results,omitempty"`
	SearchAfterDate  string `json:"search_after_date_filter,omitempty"`
	SearchBeforeDate string `json:"search_before_date_filter,omitempty"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// New creates a Client. An empty baseURL selects the public endpoint;
// model and maxTokens are passed opaquely on every completion.
func New(apiKey, baseURL, model string, maxTokens int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Search fetches up to maxResults articles for query inside the
// inclusive MM/DD/YYYY window, in the API's own ranking order.
func (c *Client) Search(ctx context.Context, query string, maxResults int, afterDate, beforeDate string) ([]brief.Article, error) {
	reqBody := searchRequest{
		Query:            query,
		MaxResults:       maxResults,
		SearchAfterDate:  afterDate,
		SearchBeforeDate: beforeDate,
	}
	var resp searchResponse
	if err := c.postJSON(ctx, "/search", reqBody, &resp); err != nil {
		return nil, err
	}
	articles := make([]brief.Article, 0, len(resp.Results))
	for _, r := range resp.Results {
		articles = append(articles, brief.Article{Title: r.Title, URL: r.URL, Snippet: r.Snippet})
	}
	return articles, nil
}

// Complete sends prompt as a single user message and returns the first
// choice's content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:     c.model,
		Messages:  []message{{Role: "user", Content: prompt}},
		MaxTokens: c.maxTokens,
	}
	var resp chatResponse
	if err := c.postJSON(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// postJSON marshals in, POSTs it to path with the bearer token, and
// decodes the response into out.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	jsonData, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
