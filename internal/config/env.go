package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted after the config file is parsed.
const (
	EnvDocsDir    = "RDE_DOCS_DIR"
	EnvDocsOutput = "RDE_DOCS_OUTPUT"
	EnvLogLevel   = "RDE_LOG_LEVEL"
	EnvLogFormat  = "RDE_LOG_FORMAT"
)

// loadEnvFile loads .env and .env.local when present. Existing process
// environment variables are not overwritten.
func loadEnvFile() error {
	var found []string
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return godotenv.Load(found...)
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDocsDir)); v != "" {
		cfg.Docs.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDocsOutput)); v != "" {
		cfg.Docs.Output = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = LogFormat(v)
	}
}
