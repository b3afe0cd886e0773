package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

//go:embed default_config.json
var defaultConfigJSON []byte

func validateConfig(cfg *Config) error {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	if cfg.Contract == "" {
		cfg.Contract = DefaultContract
	}
	cfg.Contract = strings.ToLower(cfg.Contract)

	if cfg.TopicRegister == "" {
		cfg.TopicRegister = DefaultTopicRegister
	}
	cfg.TopicRegister = strings.ToLower(cfg.TopicRegister)

	if cfg.DeployBlock == 0 {
		cfg.DeployBlock = DefaultDeployBlock
	}

	if cfg.StatePath == "" {
		cfg.StatePath = "state/registration-events.json"
	}
	if cfg.BlockChunk == 0 {
		cfg.BlockChunk = 2000
	}
	if cfg.MaxEvents == 0 {
		cfg.MaxEvents = 1000
	}
	if cfg.MaxAnalytics == 0 {
		cfg.MaxAnalytics = 5000
	}

	if cfg.PollIntervalSeconds == 0 {
		cfg.PollIntervalSeconds = 15
	}
	if cfg.ServerPort == 0 {
		cfg.ServerPort = 8788
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "reports"
	}

	return nil
}

// Load reads the config file at path, fills unset fields with defaults, and
// applies environment overrides. An empty path yields the default config.
func Load(path string) (*Config, error) {
	cfg, err := LoadDefaultConfig()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the given config to path.
func Save(cfg *Config, path string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadDefaultConfig loads the default configuration from embedded JSON.
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides layers environment variables over the file config so
// deployments can keep secrets like webhook URLs out of the config file.
func applyEnvOverrides(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.RPCURL, "BASE_RPC_URL")
	setString(&cfg.Contract, "CONTRACT_ADDRESS")
	setString(&cfg.TopicRegister, "TOPIC_REGISTER")
	setString(&cfg.StatePath, "REG_NOTIFY_STATE_PATH")
	setString(&cfg.DiscordWebhookURL, "DISCORD_WEBHOOK_URL")
	setString(&cfg.SlackWebhookURL, "SLACK_WEBHOOK_URL")
	setString(&cfg.AnalyticsSharedSecret, "ANALYTICS_SHARED_SECRET")
	setString(&cfg.ReportDir, "RECON_REPORT_DIR")

	if v := os.Getenv("DEPLOY_BLOCK"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.DeployBlock = n
		}
	}
	if v := os.Getenv("REG_NOTIFY_BLOCK_CHUNK"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.BlockChunk = n
		}
	}
	if v := os.Getenv("REG_NOTIFY_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PollIntervalSeconds = n
		}
	}
	if v := os.Getenv("REG_NOTIFY_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ServerPort = n
		}
	}
}
