package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "REDLINE_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "REDLINE_AGENT_BASE_URL"
	EnvAgentToken        = "REDLINE_AGENT_TOKEN"
	EnvAgentDeployment   = "REDLINE_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "REDLINE_AGENT_API_VERSION"
	EnvAgentAuthType     = "REDLINE_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "REDLINE_AGENT_MODEL_NAME"
	EnvAgentTimeout      = "REDLINE_AGENT_TIMEOUT"
)

// AgentConfig configures the vision model used for section analysis,
// plus the per-section analysis timeout.
type AgentConfig struct {
	Name     string              `toml:"name"`
	Provider AgentProviderConfig `toml:"provider"`
	Model    string              `toml:"model"`
	Timeout  string              `toml:"timeout"`
}

// AgentProviderConfig identifies the model provider endpoint.
type AgentProviderConfig struct {
	Name    string         `toml:"name"`
	BaseURL string         `toml:"base_url"`
	Options map[string]any `toml:"options"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *AgentConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Build converts the finalized config into the go-agents form.
func (c *AgentConfig) Build() gaconfig.AgentConfig {
	base := gaconfig.DefaultAgentConfig()
	overlay := gaconfig.AgentConfig{
		Name: c.Name,
		Provider: &gaconfig.ProviderConfig{
			Name:    c.Provider.Name,
			BaseURL: c.Provider.BaseURL,
			Options: c.Provider.Options,
		},
		Model: &gaconfig.ModelConfig{
			Name: c.Model,
		},
	}
	base.Merge(&overlay)
	return base
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AgentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Provider.Name != "" {
		c.Provider.Name = overlay.Provider.Name
	}
	if overlay.Provider.BaseURL != "" {
		c.Provider.BaseURL = overlay.Provider.BaseURL
	}
	if overlay.Provider.Options != nil {
		c.Provider.Options = overlay.Provider.Options
	}
}

func (c *AgentConfig) loadDefaults() {
	if c.Name == "" {
		c.Name = "redline-vision"
	}
	if c.Timeout == "" {
		c.Timeout = "90s"
	}
	if c.Provider.Name == "" {
		c.Provider.Name = "ollama"
	}
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "http://localhost:11434"
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
}

func (c *AgentConfig) loadEnv() {
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAgentTimeout); v != "" {
		c.Timeout = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func (c *AgentConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	return nil
}
