package models

// Config represents the service configuration
type Config struct {
	// Server config
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// AI extraction config
	AI AIConfig `yaml:"ai"`

	// Exchange-rate collaborator
	Rates RatesConfig `yaml:"rates"`

	// Calculation engine bounds
	Calc CalcConfig `yaml:"calc"`
}

// AIConfig represents AI provider configuration
type AIConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"`
	Gemini GeminiConfig `yaml:"gemini"`

	// Default provider: "openai" or "gemini"
	DefaultProvider string `yaml:"default_provider"`

	// Payloads below this confidence are skipped by the autofill mapper
	MinConfidence float64 `yaml:"min_confidence"`
}

// OpenAIConfig for OpenAI/Azure OpenAI
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"` // For custom endpoints
	Model   string `yaml:"model"`              // Default: "gpt-4o"
}

// GeminiConfig for Google Gemini
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-1.5-pro"
}

// RatesConfig points at the central-bank exchange rate API
type RatesConfig struct {
	BaseURL string `yaml:"base_url"` // Default: https://cbu.uz/ru/arkhiv-kursov-valyut/json/
}

// CalcConfig holds the tunable bounds of the duty/fee engine
type CalcConfig struct {
	FeeRatePercent float64 `yaml:"fee_rate_percent"` // customs processing fee, % of customs value
	MinFee         float64 `yaml:"min_fee"`          // clamp floor, UZS
	MaxFee         float64 `yaml:"max_fee"`          // clamp ceiling, UZS
}
