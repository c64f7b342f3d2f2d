package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvAPIURL overrides api.base-url when set
const EnvAPIURL = "NOTIUM_API_URL"

// Config is the client configuration, usually loaded from ~/.config/notium/config.yaml
type Config struct {
	File    string        `yaml:"-"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Query   QueryConfig   `yaml:"query"`
	Guard   GuardConfig   `yaml:"guard"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig describes the remote Notium service
type APIConfig struct {
	BaseURL string        `yaml:"base-url" default:"http://localhost:8000/api"`
	Timeout time.Duration `yaml:"timeout" default:"15s"`
}

// StorageConfig locates the local credential store. An empty path means the default location.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// QueryConfig tunes the query cache
type QueryConfig struct {
	// Retry is the number of extra attempts for failed reads. Mutations never retry.
	Retry int `yaml:"retry" default:"1"`
	// RetryDelay is the pause before a retry
	RetryDelay time.Duration `yaml:"retry-delay" default:"500ms"`
	// StaleTime is how long a fetched entry is served without a new request
	StaleTime time.Duration `yaml:"stale-time" default:"30s"`
}

// GuardConfig holds route guard policy switches
type GuardConfig struct {
	// RedirectAuthenticatedGuests sends signed-in users away from /login and /sign-up
	RedirectAuthenticatedGuests bool `yaml:"redirect-authenticated-guests"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level" default:"info"`
}

// DefaultConfigDir returns ~/.config/notium (or the platform equivalent)
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate user config dir")
	}
	return filepath.Join(dir, "notium"), nil
}

// DefaultConfig returns a Config with every default applied
func DefaultConfig() *Config {
	c := new(Config)
	// defaults.Set only fails on malformed tags
	_ = defaults.Set(c)
	return c
}

// LoadConfig reads the YAML file at path on top of the defaults.
// A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()

	if path == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	realpath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve config path")
	}
	c.File = filepath.Clean(realpath)

	data, err := os.ReadFile(c.File)
	switch {
	case os.IsNotExist(err):
		LogDebug("No config file at %s, using defaults", c.File)
	case err != nil:
		return nil, errors.Wrap(err, "read config file failed")
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, errors.Wrap(err, "parse config file failed")
		}
		// fill fields present in the YAML but left empty
		if err := defaults.Set(c); err != nil {
			return nil, errors.Wrap(err, "re-set default config failed")
		}
	}

	if env := os.Getenv(EnvAPIURL); env != "" {
		c.API.BaseURL = env
	}

	return c, nil
}

// Save writes the configuration back to c.File
func (c *Config) Save() error {
	if c.File == "" {
		return errors.New("config has no file path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0755); err != nil {
		return errors.Wrap(err, "create config dir failed")
	}
	return errors.Wrap(os.WriteFile(c.File, data, 0644), "write config file failed")
}

// StoragePath returns the credential database path, falling back to the config dir
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "notium.db"), nil
}
