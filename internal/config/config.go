// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Venues    VenuesConfig    `mapstructure:"venues"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Trading   TradingConfig   `mapstructure:"trading"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// VenuesConfig holds per-venue streaming endpoints and the watched
// instrument set shared across every venue.
type VenuesConfig struct {
	BinanceSpotWSURL    string        `mapstructure:"binance_spot_ws_url"`
	BinanceFuturesWSURL string        `mapstructure:"binance_futures_ws_url"`
	BybitSpotWSURL      string        `mapstructure:"bybit_spot_ws_url"`
	BybitFuturesWSURL   string        `mapstructure:"bybit_futures_ws_url"`
	Instruments         []string      `mapstructure:"instruments"`
	LivenessTimeout     time.Duration `mapstructure:"liveness_timeout"`
	BaseBackoff         time.Duration `mapstructure:"base_backoff"`
	MaxBackoff          time.Duration `mapstructure:"max_backoff"`
	RotationInterval    time.Duration `mapstructure:"rotation_interval"`
	DisconnectWindow    time.Duration `mapstructure:"disconnect_window"`
	DisconnectLimit     int           `mapstructure:"disconnect_limit"`
	CircuitPause        time.Duration `mapstructure:"circuit_pause"`
}

// DetectorConfig holds the comparator/alert-gate tunable constants.
type DetectorConfig struct {
	DiffThresholdPct   float64       `mapstructure:"diff_threshold_pct"`
	ReAlertDeltaPct    float64       `mapstructure:"re_alert_delta_pct"`
	CooldownSeconds    time.Duration `mapstructure:"cooldown"`
	GateResetInterval  time.Duration `mapstructure:"gate_reset_interval"`
	MailboxCapacity    int           `mapstructure:"mailbox_capacity"`
}

// DiffThresholdPctDecimal returns the diff threshold as decimal.Decimal.
func (c *DetectorConfig) DiffThresholdPctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.DiffThresholdPct)
}

// ReAlertDeltaPctDecimal returns the re-alert delta as decimal.Decimal.
func (c *DetectorConfig) ReAlertDeltaPctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.ReAlertDeltaPct)
}

// TradingConfig holds the signed trading client's venue endpoint and
// credentials. Credentials are read from the environment only, never
// from a config file, to keep secrets out of version-controlled YAML.
type TradingConfig struct {
	BinanceTradingWSURL string `mapstructure:"binance_trading_ws_url"`
	APIKeyBinance       string `mapstructure:"-"`
	SecretKeyBinance    string `mapstructure:"-"`
}

// TelegramConfig holds the notification worker's outbound channel
// credentials. Both are environment-only, like TradingConfig's keys.
type TelegramConfig struct {
	BotToken string `mapstructure:"-"`
	ChatID   string `mapstructure:"-"`
}

// Enabled reports whether Telegram notifications can be dispatched.
func (c *TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// defaultInstruments is the watched instrument set lifted from the
// original bot's startup symbol list.
var defaultInstruments = []string{
	"BTCUSDT", "ETHUSDT", "SOLUSDT", "LINKUSDT",
	"XRPUSDT", "BNBUSDT", "1000PEPEUSDT", "WLFIUSDT",
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Credentials never go through mapstructure so they can never be
	// accidentally checked in via a committed config file.
	cfg.Trading.APIKeyBinance = v.GetString("trading.api_key_binance")
	cfg.Trading.SecretKeyBinance = v.GetString("trading.secret_key_binance")
	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	cfg.Telegram.ChatID = v.GetString("telegram.chat_id")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Venues
	v.BindEnv("venues.binance_spot_ws_url", "ARB_BINANCE_SPOT_WS_URL")
	v.BindEnv("venues.binance_futures_ws_url", "ARB_BINANCE_FUTURES_WS_URL")
	v.BindEnv("venues.bybit_spot_ws_url", "ARB_BYBIT_SPOT_WS_URL")
	v.BindEnv("venues.bybit_futures_ws_url", "ARB_BYBIT_FUTURES_WS_URL")
	v.BindEnv("venues.instruments", "ARB_INSTRUMENTS")
	v.BindEnv("venues.liveness_timeout", "ARB_LIVENESS_TIMEOUT")
	v.BindEnv("venues.base_backoff", "ARB_BASE_BACKOFF")
	v.BindEnv("venues.max_backoff", "ARB_MAX_BACKOFF")
	v.BindEnv("venues.rotation_interval", "ARB_ROTATION_INTERVAL")
	v.BindEnv("venues.disconnect_window", "ARB_DISCONNECT_WINDOW")
	v.BindEnv("venues.disconnect_limit", "ARB_DISCONNECT_LIMIT")
	v.BindEnv("venues.circuit_pause", "ARB_CIRCUIT_PAUSE")

	// Detector
	v.BindEnv("detector.diff_threshold_pct", "ARB_DIFF_THRESHOLD_PCT")
	v.BindEnv("detector.re_alert_delta_pct", "ARB_RE_ALERT_DELTA_PCT")
	v.BindEnv("detector.cooldown", "ARB_COOLDOWN")
	v.BindEnv("detector.gate_reset_interval", "ARB_GATE_RESET_INTERVAL")
	v.BindEnv("detector.mailbox_capacity", "ARB_MAILBOX_CAPACITY")

	// Trading (credentials are environment-only, no ARB_ prefix, matching
	// the original bot's bare env var names)
	v.BindEnv("trading.binance_trading_ws_url", "ARB_BINANCE_TRADING_WS_URL")
	v.BindEnv("trading.api_key_binance", "API_KEY_BINANCE")
	v.BindEnv("trading.secret_key_binance", "SECRET_KEY_BINANCE")

	// Telegram
	v.BindEnv("telegram.bot_token", "TELEGRAM_KEY")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "venuearb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("venues.binance_spot_ws_url", "wss://stream.binance.com:9443")
	v.SetDefault("venues.binance_futures_ws_url", "wss://fstream.binance.com")
	v.SetDefault("venues.bybit_spot_ws_url", "wss://stream.bybit.com/v5/public/spot")
	v.SetDefault("venues.bybit_futures_ws_url", "wss://stream.bybit.com/v5/public/linear")
	v.SetDefault("venues.instruments", defaultInstruments)
	v.SetDefault("venues.liveness_timeout", "60s")
	v.SetDefault("venues.base_backoff", "1s")
	v.SetDefault("venues.max_backoff", "60s")
	v.SetDefault("venues.rotation_interval", "23h")
	v.SetDefault("venues.disconnect_window", "300s")
	v.SetDefault("venues.disconnect_limit", 10)
	v.SetDefault("venues.circuit_pause", "300s")

	v.SetDefault("detector.diff_threshold_pct", 5.0)
	v.SetDefault("detector.re_alert_delta_pct", 1.0)
	v.SetDefault("detector.cooldown", "120s")
	v.SetDefault("detector.gate_reset_interval", "24h")
	v.SetDefault("detector.mailbox_capacity", 100)

	v.SetDefault("trading.binance_trading_ws_url", "wss://ws-fapi.binance.com/ws-fapi/v1")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "venuearb")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration. Missing trading credentials are
// fatal (mirrors the original bot's env::var(...).expect(...) startup
// check); missing Telegram credentials are left to the caller to warn
// about and degrade gracefully, since the alert gate must keep running
// with notifications disabled.
func (c *Config) Validate() error {
	if len(c.Venues.Instruments) == 0 {
		return fmt.Errorf("venues.instruments cannot be empty")
	}
	if c.Venues.BinanceSpotWSURL == "" || c.Venues.BybitSpotWSURL == "" {
		return fmt.Errorf("venue websocket URLs are required")
	}
	if c.Venues.DisconnectLimit <= 0 {
		return fmt.Errorf("venues.disconnect_limit must be positive")
	}
	if c.Trading.APIKeyBinance == "" || c.Trading.SecretKeyBinance == "" {
		return fmt.Errorf("API_KEY_BINANCE and SECRET_KEY_BINANCE are required")
	}
	return nil
}
