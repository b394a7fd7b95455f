package config

// Config represents the complete chainhook configuration.
type Config struct {
	Service      ServiceConfig      `yaml:"service"`
	Provider     ProviderConfig     `yaml:"provider"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	Receiver     ReceiverConfig     `yaml:"receiver"`
}

// ServiceConfig defines process-wide settings.
type ServiceConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// ProviderConfig describes the blockchain-event API the registrar talks to.
type ProviderConfig struct {
	// APIKey is sent as the x-api-key header, never in a request body.
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Chain   string `yaml:"chain"`
}

// SubscriptionConfig holds what the registrar subscribes to.
type SubscriptionConfig struct {
	Address     string `yaml:"address"`
	CallbackURL string `yaml:"callback_url"`
}

// ReceiverConfig defines the webhook listener.
type ReceiverConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`

	// HMACSecret is the shared secret the provider signs deliveries with.
	HMACSecret      string `yaml:"hmac_secret"`
	SignatureHeader string `yaml:"signature_header"`

	// MaxBodySize accepts "1MB", "512KB" or a plain byte count.
	MaxBodySize string `yaml:"max_body_size"`
	Metrics     bool   `yaml:"metrics"`

	// MetricsToken, when set, is required as a bearer token on /metrics.
	MetricsToken string `yaml:"metrics_token"`
}

// Environment variable names.
const (
	EnvAPIKey       = "TATUM_API_KEY"
	EnvAddress      = "ADDRESS"
	EnvWebhookURL   = "WEBHOOK_URL"
	EnvHMACSecret   = "TATUM_HMAC_SECRET"
	EnvBaseURL      = "TATUM_API_URL_BTC"
	EnvChain        = "TATUM_CHAIN"
	EnvListen       = "CHAINHOOK_LISTEN"
	EnvWebhookPath  = "CHAINHOOK_WEBHOOK_PATH"
	EnvLogLevel     = "CHAINHOOK_LOG_LEVEL"
	EnvLogFormat    = "CHAINHOOK_LOG_FORMAT"
	EnvMaxBodySize  = "CHAINHOOK_MAX_BODY_SIZE"
	EnvMetricsToken = "CHAINHOOK_METRICS_TOKEN"
)

// Default values
const (
	DefaultBaseURL         = "https://api.tatum.io"
	DefaultChain           = "BTC"
	DefaultListen          = "0.0.0.0:8787"
	DefaultWebhookPath     = "/webhook"
	DefaultSignatureHeader = "x-payload-hash"
	DefaultMaxBodySize     = 1048576 // 1 MB
)

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
		Provider: ProviderConfig{
			BaseURL: DefaultBaseURL,
			Chain:   DefaultChain,
		},
		Receiver: ReceiverConfig{
			Listen:          DefaultListen,
			Path:            DefaultWebhookPath,
			SignatureHeader: DefaultSignatureHeader,
			Metrics:         true,
		},
	}
}
