package config

import "os"

// Environment variable names. These are the build/deploy-time equivalent
// of the invite link's query parameters.
const (
	EnvRemoteURL = "CLASSVAULT_REMOTE_URL"
	EnvRemoteKey = "CLASSVAULT_REMOTE_KEY"
	EnvLocalDB   = "CLASSVAULT_DB"
)

func parseEnv(cfg *Config) {
	if v := os.Getenv(EnvRemoteURL); v != "" {
		cfg.Remote.Endpoint = v
	}
	if v := os.Getenv(EnvRemoteKey); v != "" {
		cfg.Remote.AccessKey = v
	}
	if v := os.Getenv(EnvLocalDB); v != "" {
		cfg.LocalDBPath = v
	}
}
