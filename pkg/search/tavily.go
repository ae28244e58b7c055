// Package search provides the web-search capability the research stage uses
// to ground market analysis and trends.
package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	// TavilyEndpoint is the Tavily search API.
	TavilyEndpoint = "https://api.tavily.com/search"
	// DefaultMaxResults is how many results are requested per query.
	DefaultMaxResults = 5
)

// Searcher returns a text summary of search results for query. The text is
// prompt filler and is never parsed.
type Searcher interface {
	Search(ctx context.Context, query string) (results string, err error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string) (string, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, query string) (results string, err error) {
	results, err = f(ctx, query)
	return results, err
}

// TavilyClient queries the Tavily search API.
type TavilyClient struct {
	apiKey     string
	maxResults int
	endpoint   string
	httpClient *http.Client
	sanitizer  *bluemonday.Policy
}

// NewTavilyClient creates a Tavily client.
func NewTavilyClient(apiKey string) (client *TavilyClient) {
	client = &TavilyClient{
		apiKey:     apiKey,
		maxResults: DefaultMaxResults,
		endpoint:   TavilyEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		sanitizer: bluemonday.StrictPolicy(),
	}
	return client
}

// Search runs query and renders the answer and results as plain text.
func (c *TavilyClient) Search(ctx context.Context, query string) (results string, err error) {
	var reqBody []byte
	reqBody, err = c.buildRequest(query)
	if err != nil {
		return results, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return results, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "search request failed")
		return results, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read search response")
		return results, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("search request failed with status %d: %s", resp.StatusCode, string(respBody))
		return results, err
	}

	if !gjson.ValidBytes(respBody) {
		err = errors.Errorf("search response is not valid JSON: %s", string(respBody))
		return results, err
	}

	results = c.render(gjson.ParseBytes(respBody))

	return results, err
}

func (c *TavilyClient) buildRequest(query string) (body []byte, err error) {
	body = []byte(`{}`)

	body, err = sjson.SetBytes(body, "api_key", c.apiKey)
	if err != nil {
		err = errors.Wrap(err, "failed to build search request")
		return body, err
	}

	body, err = sjson.SetBytes(body, "query", query)
	if err != nil {
		err = errors.Wrap(err, "failed to build search request")
		return body, err
	}

	body, err = sjson.SetBytes(body, "max_results", c.maxResults)
	if err != nil {
		err = errors.Wrap(err, "failed to build search request")
		return body, err
	}

	return body, err
}

// render flattens the Tavily payload into numbered, sanitized snippets.
func (c *TavilyClient) render(payload gjson.Result) (text string) {
	var sb strings.Builder

	if answer := c.clean(payload.Get("answer").String()); answer != "" {
		sb.WriteString("Answer: ")
		sb.WriteString(answer)
		sb.WriteString("\n\n")
	}

	i := 0
	payload.Get("results").ForEach(func(_, result gjson.Result) bool {
		i++
		title := c.clean(result.Get("title").String())
		url := result.Get("url").String()
		content := c.clean(result.Get("content").String())

		sb.WriteString(fmt.Sprintf("%d. %s", i, title))
		if url != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", url))
		}
		sb.WriteString("\n")
		if content != "" {
			sb.WriteString("   ")
			sb.WriteString(content)
			sb.WriteString("\n")
		}
		return true
	})

	if i == 0 && sb.Len() == 0 {
		sb.WriteString("No search results found.")
	}

	text = strings.TrimSpace(sb.String())
	return text
}

func (c *TavilyClient) clean(s string) (cleaned string) {
	cleaned = strings.TrimSpace(c.sanitizer.Sanitize(s))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return cleaned
}
