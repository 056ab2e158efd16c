package domain

// Provider describes the translation backend a run talks to.
type Provider struct {
	Type        string  `json:"type" toml:"type" env:"TYPE"` // openai, openrouter, ollama
	BaseURL     string  `json:"base_url" toml:"base_url" env:"BASE_URL"`
	Model       string  `json:"model" toml:"model" env:"MODEL"`
	Temperature float64 `json:"temperature" toml:"temperature" env:"TEMPERATURE"`
	TimeoutSec  int     `json:"timeout_seconds" toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	APIKey      string  `json:"-" toml:"-"`
}
