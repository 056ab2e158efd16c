// Package config loads the run configuration from a JSON or TOML file with
// TSGPT_* environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"tsgpt/internal/domain"
)

const (
	DefaultBatchSize = 50
	DefaultProvider  = "openai"
	DefaultModel     = "gpt-4o-mini"
	DefaultTimeout   = 60
	EnvPrefix        = "TSGPT_"
)

type Config struct {
	TSFilePath       string `json:"ts_file_path" toml:"ts_file_path" env:"TS_FILE_PATH"`
	APIKeyPath       string `json:"api_key_path" toml:"api_key_path" env:"API_KEY_PATH"`
	APICallSize      int    `json:"api_call_size" toml:"api_call_size" env:"API_CALL_SIZE"`
	Lang             string `json:"lang" toml:"lang" env:"LANG"`
	LangPostfix      string `json:"lang_postfix" toml:"lang_postfix" env:"LANG_POSTFIX"`
	CSVToImport      string `json:"csv_to_import" toml:"csv_to_import" env:"CSV_TO_IMPORT"`
	CSVToExport      string `json:"csv_to_export" toml:"csv_to_export" env:"CSV_TO_EXPORT"`
	ImportFromCSV    bool   `json:"import_from_csv" toml:"import_from_csv" env:"IMPORT_FROM_CSV"`
	ExportToCSV      bool   `json:"export_to_csv" toml:"export_to_csv" env:"EXPORT_TO_CSV"`
	WriteBackToTS    bool   `json:"write_back_to_ts" toml:"write_back_to_ts" env:"WRITE_BACK_TO_TS"`
	ClearTranslation bool   `json:"clear_translation" toml:"clear_translation" env:"CLEAR_TRANSLATION"`
	TemplateTSFile   string `json:"template_ts_file" toml:"template_ts_file" env:"TEMPLATE_TS_FILE"`

	Provider         domain.Provider `json:"provider" toml:"provider" envPrefix:"PROVIDER_"`
	CachePath        string          `json:"cache_path" toml:"cache_path" env:"CACHE_PATH"`
	CSVSeparator     string          `json:"csv_separator" toml:"csv_separator" env:"CSV_SEPARATOR"`
	SystemPromptPath string          `json:"system_prompt_path" toml:"system_prompt_path" env:"SYSTEM_PROMPT_PATH"`
	LogLevel         string          `json:"log_level" toml:"log_level" env:"LOG_LEVEL"`
	LogFormat        string          `json:"log_format" toml:"log_format" env:"LOG_FORMAT"`

	APIKey string `json:"-" toml:"-" env:"API_KEY"`
}

// Default returns a configuration holding every default value.
func Default() *Config {
	return &Config{
		APICallSize:  DefaultBatchSize,
		CSVSeparator: ",",
		LogLevel:     "info",
		LogFormat:    "text",
		Provider: domain.Provider{
			Type:       DefaultProvider,
			Model:      DefaultModel,
			TimeoutSec: DefaultTimeout,
		},
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides, resolves the API key and validates the result. A .env file in the
// working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapIO("read", path, err)
	}
	if err := decode(path, data, cfg); err != nil {
		return nil, err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, domain.ConfigErrorf("environment: %v", err)
	}
	if cfg.APIKey == "" && cfg.APIKeyPath != "" {
		key, err := ReadAPIKey(cfg.APIKeyPath)
		if err != nil {
			return nil, err
		}
		cfg.APIKey = key
	}
	cfg.Provider.APIKey = cfg.APIKey
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return domain.ConfigErrorf("%s: %v", path, err)
	}
	return nil
}

// ReadAPIKey returns the trimmed first line of the key file.
func ReadAPIKey(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", domain.WrapIO("read", path, err)
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	key, _, _ := strings.Cut(string(b), "\n")
	key = strings.TrimSpace(key)
	if key == "" {
		return "", domain.ConfigErrorf("API key file %s is empty", path)
	}
	return key, nil
}

// Validate checks required fields and fills the language display name from
// the language code when it is missing.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TSFilePath) == "" {
		return domain.ConfigErrorf("ts_file_path is required")
	}
	if c.APICallSize <= 0 {
		return domain.ConfigErrorf("api_call_size must be positive, got %d", c.APICallSize)
	}
	if strings.TrimSpace(c.LangPostfix) == "" {
		return domain.ConfigErrorf("lang_postfix is required")
	}
	tag, err := ParseLanguageCode(c.LangPostfix)
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.Lang) == "" {
		c.Lang = display.English.Tags().Name(tag)
	}
	if c.ImportFromCSV && c.CSVToImport == "" {
		return domain.ConfigErrorf("import_from_csv needs csv_to_import")
	}
	if c.ExportToCSV && c.CSVToExport == "" {
		return domain.ConfigErrorf("export_to_csv needs csv_to_export")
	}
	return nil
}

// ParseLanguageCode accepts Qt style codes such as "es_ES" as well as BCP 47
// tags.
func ParseLanguageCode(code string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return language.Und, domain.ConfigErrorf("%q is not a language code: %v", code, err)
	}
	return tag, nil
}

// Mode picks the primary operation. Clearing wins over importing, which wins
// over translating.
func (c *Config) Mode() domain.Mode {
	switch {
	case c.ClearTranslation:
		return domain.ModeReset
	case c.ImportFromCSV:
		return domain.ModeImport
	default:
		return domain.ModeTranslate
	}
}
