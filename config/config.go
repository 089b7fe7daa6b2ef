package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ProjectName       string   `yaml:"project_name"`
	APIVersion        string   `yaml:"api_version"`
	Environment       string   `yaml:"environment"`
	Debug             bool     `yaml:"debug"`
	LogLevel          string   `yaml:"log_level"`
	Port              string   `yaml:"port"`
	PrometheusEnabled bool     `yaml:"prometheus_enable"`
	AppMessage        string   `yaml:"app_message"`
	LogFilePath       string   `yaml:"log_file_path"`
	LogRequestBody    bool     `yaml:"log_request_body"`
	RedactMaskHeaders []string `yaml:"redact_mask_headers"`
	RedactDropHeaders []string `yaml:"redact_drop_headers"`
}

func defaults() *Config {
	return &Config{
		ProjectName:       "app",
		APIVersion:        "v1",
		Environment:       "local",
		Debug:             false,
		Port:              "8000",
		PrometheusEnabled: true,
		AppMessage:        "Hello",
		LogFilePath:       "static/logs/logs.log",
		LogRequestBody:    false,
		RedactMaskHeaders: []string{"authorization"},
		RedactDropHeaders: []string{"cookie"},
	}
}

// NewConfig builds the settings once at startup. Values from the optional
// SETTINGS_FILE YAML document act as defaults; environment variables win.
func NewConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("SETTINGS_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ProjectName = getEnv("PROJECT_NAME", cfg.ProjectName)
	cfg.APIVersion = getEnv("API_VERSION", cfg.APIVersion)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.Debug = getEnvBool("DEBUG", cfg.Debug)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.PrometheusEnabled = getEnvBool("PROMETHEUS_ENABLE", cfg.PrometheusEnabled)
	cfg.AppMessage = getEnv("APP_MESSAGE", cfg.AppMessage)
	cfg.LogFilePath = getEnv("LOG_FILE_PATH", cfg.LogFilePath)
	cfg.LogRequestBody = getEnvBool("LOG_REQUEST_BODY", cfg.LogRequestBody)
	cfg.RedactMaskHeaders = getEnvList("REDACT_MASK_HEADERS", cfg.RedactMaskHeaders)
	cfg.RedactDropHeaders = getEnvList("REDACT_DROP_HEADERS", cfg.RedactDropHeaders)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return nil
}

// IsDeployed reports whether the environment is one of the deployed
// environments that log plain JSON to the console.
func (c *Config) IsDeployed() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production", "dev", "development":
		return true
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

var Module = fx.Options(
	fx.Provide(NewConfig),
)
