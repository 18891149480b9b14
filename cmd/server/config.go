package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/adbreak/demo"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/plugin"
)

// ServerConfig holds all server configuration, parsed from environment
// variables. A .env file is honored when present (see main).
type ServerConfig struct {
	// Server
	Port string `env:"ADLAD_PORT" envDefault:"8080"`

	// Plugin
	PublisherID   string        `env:"ADLAD_PUBLISHER_ID" envDefault:"ca-pub-demo"`
	FrequencyHint string        `env:"ADLAD_FREQUENCY_HINT"`
	BreakName     string        `env:"ADLAD_BREAK_NAME" envDefault:"rewarded"`
	Cooldown      time.Duration `env:"ADLAD_COOLDOWN" envDefault:"1s"`
	TestAds       bool          `env:"ADLAD_TEST_ADS" envDefault:"true"`

	// Simulated vendor
	VendorFillRate     float64       `env:"VENDOR_FILL_RATE" envDefault:"0.8"`
	VendorDismissRate  float64       `env:"VENDOR_DISMISS_RATE" envDefault:"0.2"`
	VendorLatency      time.Duration `env:"VENDOR_LATENCY" envDefault:"50ms"`
	VendorOfferTimeout time.Duration `env:"VENDOR_OFFER_TIMEOUT" envDefault:"5s"`
}

// ParseConfig parses configuration from the environment
func ParseConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration bounds
func (c *ServerConfig) Validate() error {
	if c.PublisherID == "" {
		return fmt.Errorf("ADLAD_PUBLISHER_ID must not be empty")
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("ADLAD_COOLDOWN must be positive, got %v", c.Cooldown)
	}
	if c.VendorFillRate < 0 || c.VendorFillRate > 1 {
		return fmt.Errorf("VENDOR_FILL_RATE must be in [0,1], got %v", c.VendorFillRate)
	}
	if c.VendorDismissRate < 0 || c.VendorDismissRate > 1 {
		return fmt.Errorf("VENDOR_DISMISS_RATE must be in [0,1], got %v", c.VendorDismissRate)
	}
	if c.FrequencyHint != "" {
		if _, err := time.ParseDuration(c.FrequencyHint); err != nil {
			return fmt.Errorf("ADLAD_FREQUENCY_HINT must be a duration like 30s: %w", err)
		}
	}
	return nil
}

// ToPluginConfig converts ServerConfig to plugin.Config
func (c *ServerConfig) ToPluginConfig() plugin.Config {
	return plugin.Config{
		PublisherID:   c.PublisherID,
		FrequencyHint: c.FrequencyHint,
		BreakName:     c.BreakName,
		Cooldown:      c.Cooldown,
	}
}

// ToVendorConfig converts ServerConfig to the simulated vendor's config.
// The frequency hint doubles as the simulated interstitial cap so the demo
// behaves like a capped live account.
func (c *ServerConfig) ToVendorConfig() demo.Config {
	cfg := demo.DefaultConfig()
	cfg.FillRate = c.VendorFillRate
	cfg.DismissRate = c.VendorDismissRate
	cfg.Latency = c.VendorLatency
	cfg.OfferTimeout = c.VendorOfferTimeout

	if c.FrequencyHint != "" {
		if d, err := time.ParseDuration(c.FrequencyHint); err == nil {
			cfg.FrequencyCap = d
		}
	}
	return cfg
}
