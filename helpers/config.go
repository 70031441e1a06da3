package helpers

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	DefaultGenerateURL   = "http://localhost:8000/generate"
	DefaultShareURL      = "https://www.linkedin.com/feed/?shareActive=true"
	DefaultProbeSchedule = "*/5 * * * *"
)

// Config holds the composer settings. Environment variables (optionally
// loaded from .env) provide the defaults, command line flags override them.
type Config struct {
	GenerateURL     string
	GenerateTimeout time.Duration
	ShareURL        string
	ProbeSchedule   string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		GenerateURL:   getEnv("GENERATE_URL", DefaultGenerateURL),
		ShareURL:      getEnv("SHARE_URL", DefaultShareURL),
		ProbeSchedule: getEnv("PROBE_SCHEDULE", DefaultProbeSchedule),
	}

	if v := os.Getenv("GENERATE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GENERATE_TIMEOUT %q: %w", v, err)
		}
		cfg.GenerateTimeout = d
	}

	return cfg, nil
}

// BindFlags registers the config fields as persistent flags of cmd, using the
// current values as defaults.
func (c *Config) BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&c.GenerateURL, "generate-url", c.GenerateURL, "generation service endpoint")
	flags.DurationVar(&c.GenerateTimeout, "generate-timeout", c.GenerateTimeout, "generation request timeout (0 waits indefinitely)")
	flags.StringVar(&c.ShareURL, "share-url", c.ShareURL, "share page the post text is appended to")
	flags.StringVar(&c.ProbeSchedule, "probe-schedule", c.ProbeSchedule, "cron expression of the generation service probe (empty disables it)")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
