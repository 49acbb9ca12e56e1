package crawler

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func validViper() *viper.Viper {
	v := viper.New()
	v.Set("crawler.seeds", []string{"facebook.com", " google.com ", ""})
	v.Set("crawler.blocklist", []string{"*.ru", " ads.example.com "})
	v.Set("crawler.user_agent", "domgraph-test/1.0")
	v.Set("crawler.workers", 4)
	v.Set("crawler.request_timeout", "10s")
	v.Set("crawler.max_domains", 0)
	v.Set("crawler.edge_buffer", 64)
	return v
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(validViper())
	require.NoError(t, err)
	require.Equal(t, []string{"facebook.com", "google.com"}, cfg.Seeds)
	require.Equal(t, []string{"*.ru", "ads.example.com"}, cfg.Blocklist)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, 64, cfg.EdgeBuffer)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(v *viper.Viper)
	}{
		{"no seeds", func(v *viper.Viper) { v.Set("crawler.seeds", []string{}) }},
		{"empty user agent", func(v *viper.Viper) { v.Set("crawler.user_agent", "") }},
		{"zero workers", func(v *viper.Viper) { v.Set("crawler.workers", 0) }},
		{"negative timeout", func(v *viper.Viper) { v.Set("crawler.request_timeout", "-1s") }},
		{"negative max domains", func(v *viper.Viper) { v.Set("crawler.max_domains", -1) }},
		{"zero edge buffer", func(v *viper.Viper) { v.Set("crawler.edge_buffer", 0) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := validViper()
			tc.mutate(v)
			_, err := LoadConfig(v)
			require.Error(t, err)
		})
	}
}
