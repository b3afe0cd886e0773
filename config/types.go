package config

import "time"

// Registration contract defaults on Base mainnet. These are documented
// fallbacks for the zero-value config fields; nothing reads them as
// ambient globals.
const (
	DefaultContract      = "0x1bbe8783884c23e1bf02f1221291696798002d8a"
	DefaultTopicRegister = "0xea643006918922450ebbe2e11853b7310fb95e06dfc5b23b0e2a397f045757eb"
	DefaultDeployBlock   = 42383643
)

type Config struct {
	// Log Config
	LogLevel  string `json:"log_level"`  // zerolog level name, e.g. "debug", "info"
	LogFormat string `json:"log_format"` // "json" or "console"

	// Chain Config
	RPCURL        string `json:"rpc_url"`        // EVM JSON-RPC endpoint
	Contract      string `json:"contract"`       // lowercase registry contract address
	TopicRegister string `json:"topic_register"` // lowercase Registered event signature topic
	DeployBlock   uint64 `json:"deploy_block"`   // absolute scan floor, never scanned below

	// State Config
	StatePath    string `json:"state_path"`    // durable snapshot location
	BlockChunk   uint64 `json:"block_chunk"`   // max blocks per eth_getLogs range (default 2000)
	MaxEvents    int    `json:"max_events"`    // retention cap for processed registrations (default 1000)
	MaxAnalytics int    `json:"max_analytics"` // retention cap for analytics records (default 5000)

	// Scheduling / HTTP Config
	PollIntervalSeconds int `json:"poll_interval_seconds"` // cadence of the poll job (default 15)
	ServerPort          int `json:"server_port"`           // HTTP facade port (default 8788)

	// Notification targets, each independently enabled by presence
	DiscordWebhookURL string `json:"discord_webhook_url,omitempty"`
	SlackWebhookURL   string `json:"slack_webhook_url,omitempty"`

	// Shared secret for the analytics ingestion route; empty disables the check
	AnalyticsSharedSecret string `json:"analytics_shared_secret,omitempty"`

	// Directory for reconciliation report files
	ReportDir string `json:"report_dir"`
}

// PollInterval returns the poll cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}
