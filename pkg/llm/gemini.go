package llm

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// GeminiModel is the default Gemini model.
const GeminiModel = "gemini-2.5-flash"

// GeminiClient calls Gemini through the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	system      string
	maxTokens   int
	temperature float64
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (client *GeminiClient, err error) {
	if apiKey == "" {
		err = errors.New("GEMINI_API_KEY is required")
		return client, err
	}

	if model == "" {
		model = GeminiModel
	}

	var gc *genai.Client
	gc, err = genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to create GenAI client")
		return client, err
	}

	client = &GeminiClient{
		client:      gc,
		model:       model,
		system:      SystemPrompt,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}

	return client, err
}

// Call generates a single completion for prompt.
func (c *GeminiClient) Call(ctx context.Context, prompt string) (text string, err error) {
	temperature := float32(c.temperature)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.system, genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   int32(c.maxTokens),
	}

	var resp *genai.GenerateContentResponse
	resp, err = c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		err = errors.Wrap(err, "gemini request failed")
		return text, err
	}

	text = resp.Text()
	if text == "" {
		err = errors.New("no content in Gemini response")
		return text, err
	}

	return text, err
}
