package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/xfind/internal/domain/document"
)

// Config holds the xfind API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Solr    SolrConfig    `yaml:"solr"`
	Cache   CacheConfig   `yaml:"cache"`
	Search  SearchConfig  `yaml:"search"`
	Schema  SchemaConfig  `yaml:"schema"`
	I18n    I18nConfig    `yaml:"i18n"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SolrConfig holds the search engine endpoint.
type SolrConfig struct {
	BaseURL    string `yaml:"base_url"`
	Core       string `yaml:"core"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CacheConfig holds the response cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds pagination settings.
type SearchConfig struct {
	DefaultPerPage int `yaml:"default_per_page"`
	MaxPerPage     int `yaml:"max_per_page"`
}

// FieldConfig declares one schema field.
type FieldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // string, strings, int, float, bool, time
}

// SchemaConfig describes the indexed documents.
type SchemaConfig struct {
	Key           string            `yaml:"key"`
	Fields        []FieldConfig     `yaml:"fields"`
	Facets        []string          `yaml:"facets"`
	FacetDefaults map[string]string `yaml:"facet_defaults"`
	Highlight     []string          `yaml:"highlight"`
	Fillable      []string          `yaml:"fillable"`
	Defaults      map[string]any    `yaml:"defaults"`
	Timestamps    *bool             `yaml:"timestamps"` // default true
}

// I18nConfig holds facet label translation settings.
type I18nConfig struct {
	Language         string `yaml:"language"`
	Namespace        string `yaml:"namespace"`
	TranslationsFile string `yaml:"translations_file"`
	Watch            bool   `yaml:"watch"`
	Humanize         bool   `yaml:"humanize"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Solr.TimeoutSec <= 0 {
		c.Solr.TimeoutSec = 10
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 60
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "xfind:search:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Search.DefaultPerPage <= 0 {
		c.Search.DefaultPerPage = 20
	}
	if c.Search.MaxPerPage <= 0 {
		c.Search.MaxPerPage = 100
	}
	if c.Schema.Key == "" {
		c.Schema.Key = document.DefaultKey
	}
	if c.I18n.Language == "" {
		c.I18n.Language = "en"
	}
	if c.I18n.Namespace == "" {
		c.I18n.Namespace = "xfind"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Solr.BaseURL == "" {
		return fmt.Errorf("solr.base_url is required")
	}
	if c.Solr.Core == "" {
		return fmt.Errorf("solr.core is required")
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	if c.Search.DefaultPerPage > c.Search.MaxPerPage {
		return fmt.Errorf(
			"search.default_per_page (%d) exceeds search.max_per_page (%d)",
			c.Search.DefaultPerPage, c.Search.MaxPerPage,
		)
	}
	if _, err := c.Schema.Build(); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Build converts the schema section into a document schema.
func (s SchemaConfig) Build() (document.Schema, error) {
	fields := make([]document.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, document.Field{Name: f.Name, Type: document.FieldType(f.Type)})
	}
	schema, err := document.NewSchema(s.Key, fields,
		document.WithFacets(s.Facets...),
		document.WithHighlight(s.Highlight...),
	)
	if err != nil {
		return document.Schema{}, err
	}
	for name := range s.FacetDefaults {
		if !schema.Has(name) {
			return document.Schema{}, fmt.Errorf("facet_defaults: unknown field %q", name)
		}
	}
	return schema, nil
}

// ModelOptions returns the document model options of the schema section.
func (s SchemaConfig) ModelOptions() []document.ModelOption {
	opts := []document.ModelOption{
		document.WithFillable(s.Fillable...),
		document.WithDefaults(s.Defaults),
	}
	if s.Timestamps != nil && !*s.Timestamps {
		opts = append(opts, document.WithTimestamps(document.NoTimestamps{}))
	}
	return opts
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
