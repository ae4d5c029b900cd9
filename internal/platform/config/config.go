package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	ShareLinkBaseURL   string
	LinkTTLDays        int
	TimelineFetchLimit int
	TimelineFeedProdID string
	OutboxRelayCron    string

	RequireApprovalDefault     bool
	EnableBookingNotifications bool
	EnableTimelineFeed         bool
}

// fileOverlay is the optional CONFIG_FILE shape. Environment variables win
// over file values so container overrides keep working.
type fileOverlay struct {
	ServiceName        string   `yaml:"service_name"`
	HTTPPort           string   `yaml:"http_port"`
	PostgresDSN        string   `yaml:"postgres_dsn"`
	KafkaBrokers       []string `yaml:"kafka_brokers"`
	ShareLinkBaseURL   string   `yaml:"share_link_base_url"`
	LinkTTLDays        int      `yaml:"link_ttl_days"`
	TimelineFetchLimit int      `yaml:"timeline_fetch_limit"`
	TimelineFeedProdID string   `yaml:"timeline_feed_prod_id"`
	OutboxRelayCron    string   `yaml:"outbox_relay_cron"`
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName:        "atelier",
		HTTPPort:           "8080",
		KafkaBrokers:       []string{"localhost:9092"},
		ShareLinkBaseURL:   "https://app.atelier.studio",
		LinkTTLDays:        7,
		TimelineFetchLimit: 200,
		TimelineFeedProdID: "-//Atelier//Scheduling//EN",
		OutboxRelayCron:    "@every 10s",
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if service := strings.TrimSpace(os.Getenv("SERVICE_NAME")); service != "" {
		cfg.ServiceName = service
	}
	if port := strings.TrimSpace(os.Getenv("HTTP_PORT")); port != "" {
		cfg.HTTPPort = port
	}
	if dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN")); dsn != "" {
		cfg.PostgresDSN = dsn
	}
	if brokers := splitList(os.Getenv("KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.KafkaBrokers = brokers
	}
	if base := strings.TrimSpace(os.Getenv("SHARE_LINK_BASE_URL")); base != "" {
		cfg.ShareLinkBaseURL = base
	}
	cfg.LinkTTLDays = envInt("LINK_TTL_DAYS", cfg.LinkTTLDays)
	cfg.TimelineFetchLimit = envInt("TIMELINE_FETCH_LIMIT", cfg.TimelineFetchLimit)
	if prodID := strings.TrimSpace(os.Getenv("TIMELINE_FEED_PROD_ID")); prodID != "" {
		cfg.TimelineFeedProdID = prodID
	}
	if schedule := strings.TrimSpace(os.Getenv("OUTBOX_RELAY_CRON")); schedule != "" {
		cfg.OutboxRelayCron = schedule
	}

	cfg.RequireApprovalDefault = envBool("REQUIRE_APPROVAL_DEFAULT", true)
	cfg.EnableBookingNotifications = envBool("ENABLE_BOOKING_NOTIFICATIONS", true)
	cfg.EnableTimelineFeed = envBool("ENABLE_TIMELINE_FEED", true)

	if cfg.LinkTTLDays <= 0 {
		cfg.LinkTTLDays = 7
	}
	if cfg.TimelineFetchLimit <= 0 {
		cfg.TimelineFetchLimit = 200
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var overlay fileOverlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if overlay.ServiceName != "" {
		cfg.ServiceName = overlay.ServiceName
	}
	if overlay.HTTPPort != "" {
		cfg.HTTPPort = overlay.HTTPPort
	}
	if overlay.PostgresDSN != "" {
		cfg.PostgresDSN = overlay.PostgresDSN
	}
	if len(overlay.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = overlay.KafkaBrokers
	}
	if overlay.ShareLinkBaseURL != "" {
		cfg.ShareLinkBaseURL = overlay.ShareLinkBaseURL
	}
	if overlay.LinkTTLDays > 0 {
		cfg.LinkTTLDays = overlay.LinkTTLDays
	}
	if overlay.TimelineFetchLimit > 0 {
		cfg.TimelineFetchLimit = overlay.TimelineFetchLimit
	}
	if overlay.TimelineFeedProdID != "" {
		cfg.TimelineFeedProdID = overlay.TimelineFeedProdID
	}
	if overlay.OutboxRelayCron != "" {
		cfg.OutboxRelayCron = overlay.OutboxRelayCron
	}
	return nil
}

func splitList(raw string) []string {
	var values []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
