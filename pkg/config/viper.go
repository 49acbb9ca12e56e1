// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/domgraph/domgraph/internal/logging"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup to ensure that configuration is loaded and
// available to all other packages.
func InitConfig() {
	// --- Set Search Paths ---
	// Define the name of the config file to look for (without extension).
	viper.SetConfigName("config")
	// Add paths where Viper should look for the config file.
	viper.AddConfigPath(".")               // Current working directory
	viper.AddConfigPath("/etc/domgraph/")  // System-wide configuration
	viper.AddConfigPath("$HOME/.domgraph") // User-specific configuration

	// --- Set Defaults ---
	// Set sensible defaults for key configuration parameters. These will be used
	// if the values are not provided in a config file or via environment variables.
	const defaultUA = "domgraph/1.0 (+https://github.com/domgraph/domgraph)"
	viper.SetDefault("crawler.user_agent", defaultUA)
	viper.SetDefault("crawler.workers", 8)
	viper.SetDefault("crawler.request_timeout", "10s")
	viper.SetDefault("crawler.max_domains", 0)
	viper.SetDefault("crawler.edge_buffer", 256)
	viper.SetDefault("crawler.seeds", []string{
		"amazon.com",
		"google.com",
		"bing.com",
		"youtube.com",
		"facebook.com",
	})
	viper.SetDefault("crawler.blocklist", []string{})

	viper.SetDefault("logging.development", false)
	viper.SetDefault("metrics.addr", "")

	viper.SetDefault("store.provider", "sqlite")
	viper.SetDefault("store.sqlite.path", filepath.Join(xdg.DataHome, "domgraph", "domgraph.db"))
	viper.SetDefault("store.postgres.dsn", "")
	viper.SetDefault("store.neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("store.neo4j.username", "neo4j")
	viper.SetDefault("store.neo4j.password", "")
	viper.SetDefault("store.neo4j.database", "")
	viper.SetDefault("store.redis.addr", "localhost:6379")
	viper.SetDefault("store.redis.password", "")
	viper.SetDefault("store.redis.db", 0)

	viper.SetDefault("archive.provider", "none")
	viper.SetDefault("archive.local.dir", filepath.Join(xdg.DataHome, "domgraph", "pages"))
	viper.SetDefault("archive.gcs.bucket", "")

	// --- Environment Variables ---
	// Enable Viper to read environment variables.
	viper.SetEnvPrefix("DOMGRAPH") // e.g., DOMGRAPH_CRAWLER_WORKERS=16
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// --- Read Config File ---
	// Attempt to read the configuration file.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; this is not a fatal error if we can proceed
			// with defaults and environment variables.
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			// A real error occurred while parsing the config file.
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
