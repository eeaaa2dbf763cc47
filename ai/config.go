package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/wordsoul/types"
)

const defaultProvider = "openai"

// ResolveConfig picks the effective AI configuration for a session.
// A non-nil session config wins outright; otherwise the environment
// supplies the provider and its credentials.
func ResolveConfig(session *types.AIConfig) *types.AIConfig {
	if session != nil {
		return session
	}
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("WORDSOUL_AI_PROVIDER")))
	if provider == "" {
		provider = defaultProvider
	}
	prefix := strings.ToUpper(provider)
	return &types.AIConfig{
		Provider: provider,
		APIKey:   os.Getenv(prefix + "_API_KEY"),
		BaseURL:  os.Getenv(prefix + "_API_BASE_URL"),
		Model:    os.Getenv("WORDSOUL_AI_MODEL"),
	}
}

// NewProvider builds the concrete provider named by cfg. The caller
// owns any Close method the returned provider exposes.
func NewProvider(ctx context.Context, cfg *types.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider %s: missing API key", cfg.Provider)
		}
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "local_openai":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("provider local_openai: missing base URL")
		}
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "claude":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider claude: missing API key")
		}
		return NewClaudeProvider(cfg.APIKey, cfg.Model), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider gemini: missing API key")
		}
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
