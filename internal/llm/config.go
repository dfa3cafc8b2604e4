// Package llm provides the client abstraction for the external
// generative-text service. The tracking engine consumes its output opaquely:
// text in, text out, no funnel state involved.
package llm

// ModelTier represents the capability level to use for a generation task.
type ModelTier string

const (
	// TierLite is for short, formulaic output such as interview question lists
	TierLite ModelTier = "lite"
	// TierStandard is for longer prose such as cover letter drafts
	TierStandard ModelTier = "standard"
)

// Provider represents a generative-text provider.
type Provider string

// Provider constants define supported providers.
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the tracker.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini).
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a given tier, falling back through the
// tiers when one is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
