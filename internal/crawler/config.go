package crawler

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a crawl run.
// All values originate from Viper so the crawler can be configured via files,
// env vars, or CLI flags.
type Config struct {
	Seeds          []string
	Blocklist      []string
	UserAgent      string
	Workers        int
	RequestTimeout time.Duration
	MaxDomains     int
	EdgeBuffer     int
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Seeds:          trimAll(v.GetStringSlice("crawler.seeds")),
		Blocklist:      trimAll(v.GetStringSlice("crawler.blocklist")),
		UserAgent:      v.GetString("crawler.user_agent"),
		Workers:        v.GetInt("crawler.workers"),
		RequestTimeout: v.GetDuration("crawler.request_timeout"),
		MaxDomains:     v.GetInt("crawler.max_domains"),
		EdgeBuffer:     v.GetInt("crawler.edge_buffer"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if len(c.Seeds) == 0 {
		return fmt.Errorf("crawler.seeds must include at least one seed domain")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("crawler.workers must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("crawler.request_timeout must be > 0")
	}
	if c.MaxDomains < 0 {
		return fmt.Errorf("crawler.max_domains must be >= 0")
	}
	if c.EdgeBuffer <= 0 {
		return fmt.Errorf("crawler.edge_buffer must be > 0")
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
