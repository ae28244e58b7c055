package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/nikogura/campaign-planner/pkg/llm"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// AppDir is the directory under $HOME holding the config file.
	AppDir = ".campaign-planner"
	// ConfigFile is the config file name.
	ConfigFile = "config.json"
	// SampleBriefFile is written next to the config by InitConfig.
	SampleBriefFile = "sample-brief.yaml"
	// DefaultServerAddr is where the HTTP API listens by default.
	DefaultServerAddr = ":8080"
	// DefaultOutputDir is where plan output is written by default.
	DefaultOutputDir = "./campaigns"
	// DefaultFormat is the default plan output format.
	DefaultFormat = "markdown"
)

// Config represents the application configuration.
type Config struct {
	Provider          string           `json:"provider"`
	AnthropicAPIKey   string           `json:"anthropic_api_key,omitempty"`
	HuggingFaceAPIKey string           `json:"huggingface_api_key,omitempty"`
	GeminiAPIKey      string           `json:"gemini_api_key,omitempty"`
	TavilyAPIKey      string           `json:"tavily_api_key"`
	Models            ModelsConfig     `json:"models,omitempty"`
	Generation        GenerationConfig `json:"generation,omitempty"`
	Pandoc            PandocConfig     `json:"pandoc,omitempty"`
	Server            ServerConfig     `json:"server,omitempty"`
	Defaults          DefaultConfig    `json:"defaults"`
}

// ModelsConfig holds the model name per provider.
type ModelsConfig struct {
	Anthropic   string `json:"anthropic,omitempty"`
	HuggingFace string `json:"huggingface,omitempty"`
	Gemini      string `json:"gemini,omitempty"`
}

// GenerationConfig holds sampling parameters shared by every provider.
type GenerationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// PandocConfig holds pandoc-related configuration for PDF output.
type PandocConfig struct {
	TemplatePath string `json:"template_path,omitempty"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `json:"addr,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
	Format    string `json:"format,omitempty"`
}

// DefaultPath returns $HOME/.campaign-planner/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, AppDir, ConfigFile)
	return path, err
}

// GetModel returns the configured model for the selected provider, or empty
// to let the client pick its default.
func (c *Config) GetModel() (model string) {
	switch llm.NormalizeProvider(c.Provider) {
	case llm.ProviderHuggingFace:
		model = c.Models.HuggingFace
	case llm.ProviderGemini:
		model = c.Models.Gemini
	default:
		model = c.Models.Anthropic
	}
	return model
}

// GetAPIKey returns the API key for the selected provider.
func (c *Config) GetAPIKey() (key string) {
	switch llm.NormalizeProvider(c.Provider) {
	case llm.ProviderHuggingFace:
		key = c.HuggingFaceAPIKey
	case llm.ProviderGemini:
		key = c.GeminiAPIKey
	default:
		key = c.AnthropicAPIKey
	}
	return key
}

// CallerOptions returns the model caller settings for the selected provider.
func (c *Config) CallerOptions() (opts llm.Options) {
	opts = llm.Options{
		Provider:    llm.NormalizeProvider(c.Provider),
		APIKey:      c.GetAPIKey(),
		Model:       c.GetModel(),
		Temperature: c.Generation.Temperature,
		MaxTokens:   c.Generation.MaxTokens,
	}
	return opts
}

// Load reads configuration from file with environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'campaign-planner init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	// Parse JSON
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// applyEnv overrides keys and models from the environment when set.
func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"ANTHROPIC_API_KEY", &c.AnthropicAPIKey},
		{"HF_API_KEY", &c.HuggingFaceAPIKey},
		{"HF_MODEL_ID", &c.Models.HuggingFace},
		{"GEMINI_API_KEY", &c.GeminiAPIKey},
		{"TAVILY_API_KEY", &c.TavilyAPIKey},
	}

	for _, o := range overrides {
		if value := os.Getenv(o.env); value != "" {
			*o.target = value
		}
	}
}

// Validate checks that all required configuration is present and fills in
// defaults.
func (c *Config) Validate() (err error) {
	provider := llm.NormalizeProvider(c.Provider)

	switch provider {
	case llm.ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
			return err
		}
	case llm.ProviderHuggingFace:
		if c.HuggingFaceAPIKey == "" {
			err = errors.New("huggingface_api_key is required (set in config or HF_API_KEY env var)")
			return err
		}
	case llm.ProviderGemini:
		if c.GeminiAPIKey == "" {
			err = errors.New("gemini_api_key is required (set in config or GEMINI_API_KEY env var)")
			return err
		}
	default:
		err = errors.Errorf("unknown provider %q (expected %s, %s or %s)", c.Provider, llm.ProviderAnthropic, llm.ProviderHuggingFace, llm.ProviderGemini)
		return err
	}

	if c.TavilyAPIKey == "" {
		err = errors.New("tavily_api_key is required (set in config or TAVILY_API_KEY env var)")
		return err
	}

	if t := c.Generation.Temperature; t != nil && (*t < 0 || *t > 2) {
		err = errors.Errorf("generation.temperature must be between 0 and 2, got %v", *t)
		return err
	}

	if c.Generation.MaxTokens < 0 {
		err = errors.Errorf("generation.max_tokens must not be negative, got %d", c.Generation.MaxTokens)
		return err
	}

	c.Provider = provider

	// Set defaults if not specified
	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = DefaultOutputDir
	}

	if c.Defaults.Format == "" {
		c.Defaults.Format = DefaultFormat
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}

	return err
}

// InitConfig creates a default configuration file and a sample brief next
// to it.
func InitConfig(configPath string) (err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	temperature := llm.DefaultTemperature
	defaultConfig := Config{
		Provider:        llm.ProviderAnthropic,
		AnthropicAPIKey: "sk-ant-api03-...",
		TavilyAPIKey:    "tvly-...",
		Models: ModelsConfig{
			Anthropic:   llm.ClaudeModel,
			HuggingFace: llm.HuggingFaceModel,
			Gemini:      llm.GeminiModel,
		},
		Generation: GenerationConfig{
			Temperature: &temperature,
			MaxTokens:   llm.DefaultMaxTokens,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Defaults: DefaultConfig{
			OutputDir: DefaultOutputDir,
			Format:    DefaultFormat,
		},
	}

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	err = writeSampleBrief(filepath.Join(dir, SampleBriefFile))
	if err != nil {
		return err
	}

	return err
}

// writeSampleBrief writes the sample brief unless the file already exists.
func writeSampleBrief(path string) (err error) {
	_, err = os.Stat(path)
	if err == nil {
		return nil
	}

	var data []byte
	data, err = yaml.Marshal(campaign.SampleBrief())
	if err != nil {
		err = errors.Wrap(err, "failed to marshal sample brief")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write sample brief: %s", path)
		return err
	}

	return err
}
