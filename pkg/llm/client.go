package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// ClaudeAPIEndpoint is the Anthropic API endpoint.
	ClaudeAPIEndpoint = "https://api.anthropic.com/v1/messages"
	// ClaudeModel is the model to use.
	ClaudeModel = "claude-sonnet-4-20250514"
	// ClaudeAPIVersion is the API version.
	ClaudeAPIVersion = "2023-06-01"

	// DefaultMaxTokens bounds every completion so the JSON fits.
	DefaultMaxTokens = 1400
	// DefaultTemperature keeps output stable enough to parse.
	DefaultTemperature = 0.4
)

// SystemPrompt pins every model to a single JSON object per reply.
const SystemPrompt = `You are a senior marketing AI that ONLY responds with a single valid JSON object. No prose, no markdown, no bullet lists outside JSON, and no explanations.

The JSON must:
- Start with '{' and end with '}'.
- Be valid so that a strict JSON parser succeeds.
- Contain keys like strategy_overview, target_audience, market_analysis, customer_journey, objectives_kpis, messaging_positioning, channel_strategy, budget_plan, trend_adaptation, analytics_feedback, campaigns, posts, etc., depending on the prompt.
- NOT include any extremely long week-by-week execution_plan or verbose schedules; keep fields concise so the JSON fits within the token limit.`

// Caller turns a prompt into raw model text. The text is expected to hold a
// JSON object but may be wrapped in prose or malformed.
type Caller interface {
	Call(ctx context.Context, prompt string) (text string, err error)
}

// CallerFunc adapts a function to the Caller interface.
type CallerFunc func(ctx context.Context, prompt string) (string, error)

// Call calls f.
func (f CallerFunc) Call(ctx context.Context, prompt string) (text string, err error) {
	text, err = f(ctx, prompt)
	return text, err
}

// Client represents a Claude API client.
type Client struct {
	apiKey      string
	model       string
	system      string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	endpoint    string
}

// NewClient creates a new Claude API client.
func NewClient(apiKey, model string) (client *Client) {
	if model == "" {
		model = ClaudeModel // Default to Sonnet 4
	}
	client = &Client{
		apiKey:      apiKey,
		model:       model,
		system:      SystemPrompt,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		endpoint:    ClaudeAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	return client
}

// Call sends prompt to Claude and returns the first text block.
func (c *Client) Call(ctx context.Context, prompt string) (text string, err error) {
	text, err = c.sendRequest(ctx, prompt)
	if err != nil {
		err = errors.Wrap(err, "claude request failed")
		return text, err
	}
	return text, err
}

// sendRequest sends a request to Claude API.
func (c *Client) sendRequest(ctx context.Context, prompt string) (responseText string, err error) {
	claudeReq := ClaudeRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		System:      c.system,
		Temperature: c.temperature,
		Messages: []Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	var reqBody []byte
	reqBody, err = json.Marshal(claudeReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return responseText, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return responseText, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", ClaudeAPIVersion)

	var respBody []byte
	respBody, err = doRequest(c.httpClient, httpReq)
	if err != nil {
		return responseText, err
	}

	var claudeResp ClaudeResponse
	err = json.Unmarshal(respBody, &claudeResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse Claude response: %s", string(respBody))
		return responseText, err
	}

	if len(claudeResp.Content) == 0 {
		err = errors.New("no content in Claude response")
		return responseText, err
	}

	responseText = claudeResp.Content[0].Text

	return responseText, err
}

// doRequest executes req and returns the body of a 200 response.
func doRequest(httpClient *http.Client, req *http.Request) (respBody []byte, err error) {
	var resp *http.Response
	resp, err = httpClient.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return respBody, err
	}
	defer resp.Body.Close()

	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return respBody, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return respBody, err
	}

	return respBody, err
}
