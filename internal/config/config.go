// Package config handles configuration for the classvault client:
// defaults, environment overlay, and command-line flags.
//
// The remote-store connection descriptor is resolved in launch-priority
// order: explicit invite flags (-surl/-skey) win and are persisted by the
// caller for later launches; otherwise build-time environment values;
// otherwise the caller falls back to the descriptor previously persisted
// in the local cache. Only one source ends up active per launch.
package config

import "net/url"

// Descriptor identifies the remote relational store: an endpoint plus an
// access key, the two values an owner's invite link carries.
type Descriptor struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"accessKey"`
}

// Empty reports whether no remote store has been configured.
func (d Descriptor) Empty() bool {
	return d.Endpoint == ""
}

// DSN folds the access key into the endpoint URL's credentials, yielding
// a driver-ready connection string. An unparseable endpoint is returned
// unchanged and left for the driver to reject.
func (d Descriptor) DSN() string {
	if d.AccessKey == "" {
		return d.Endpoint
	}
	u, err := url.Parse(d.Endpoint)
	if err != nil {
		return d.Endpoint
	}
	user := "classvault"
	if u.User != nil {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, d.AccessKey)
	return u.String()
}

// Config holds runtime settings for the classvault client.
//
// Fields:
//   - Remote: the remote-store connection descriptor (may be empty).
//   - RemoteFromFlags: true when Remote came from invite flags and should
//     be persisted for subsequent launches.
//   - LocalDBPath: sqlite file backing the local cache.
//   - SetupMode: force first-run tenant registration (invite "setup" flag).
type Config struct {
	Remote          Descriptor
	RemoteFromFlags bool
	LocalDBPath     string
	SetupMode       bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LocalDBPath = "classvault.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment and from command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
