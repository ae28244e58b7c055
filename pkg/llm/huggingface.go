package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// HuggingFaceEndpoint is the OpenAI-compatible inference router.
	HuggingFaceEndpoint = "https://router.huggingface.co/v1/chat/completions"
	// HuggingFaceModel is the default instruct model.
	HuggingFaceModel = "meta-llama/Meta-Llama-3-8B-Instruct"
)

// HuggingFaceClient calls chat-completions on the Hugging Face router.
type HuggingFaceClient struct {
	token       string
	model       string
	system      string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	endpoint    string
}

// NewHuggingFaceClient creates a client for the given token and model.
func NewHuggingFaceClient(token, model string) (client *HuggingFaceClient) {
	if model == "" {
		model = HuggingFaceModel
	}
	client = &HuggingFaceClient{
		token:       token,
		model:       model,
		system:      SystemPrompt,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		endpoint:    HuggingFaceEndpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	return client
}

// Call sends prompt as the user turn after the JSON-only system turn.
func (c *HuggingFaceClient) Call(ctx context.Context, prompt string) (text string, err error) {
	chatReq := ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []Message{
			{Role: "system", Content: c.system},
			{Role: "user", Content: prompt},
		},
	}

	var reqBody []byte
	reqBody, err = json.Marshal(chatReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return text, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return text, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	var respBody []byte
	respBody, err = doRequest(c.httpClient, httpReq)
	if err != nil {
		err = errors.Wrap(err, "hugging face request failed")
		return text, err
	}

	var chatResp ChatCompletionResponse
	err = json.Unmarshal(respBody, &chatResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse chat completion response: %s", string(respBody))
		return text, err
	}

	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		err = errors.New("no content in chat completion response")
		return text, err
	}

	text = chatResp.Choices[0].Message.Content

	return text, err
}
