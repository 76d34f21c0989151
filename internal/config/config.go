// Package config loads uncss settings from flags, environment and an optional
// YAML or JSON file, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file name searched for, without extension.
	FileName = ".uncss"
	// EnvPrefix prefixes every environment override, e.g. UNCSS_ENDPOINT.
	EnvPrefix = "UNCSS"
)

// Keys understood by Init and FromViper.
const (
	KeyEndpoint          = "endpoint"
	KeyTimeout           = "timeout"
	KeySentryDSN         = "sentry-dsn"
	KeySentryEnvironment = "sentry-environment"
	KeyDebug             = "debug"
	KeyLogFile           = "log-file"
	KeyMinify            = "minify"
)

// Defaults.
const (
	DefaultEndpoint          = "http://localhost:3000/api/uncss"
	DefaultTimeout           = 30 * time.Second
	DefaultSentryEnvironment = "production"
)

// Config is the resolved configuration.
type Config struct {
	Endpoint          string
	Timeout           time.Duration
	SentryDSN         string
	SentryEnvironment string
	Debug             bool
	LogFile           string
	Minify            bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEndpoint, DefaultEndpoint)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeySentryDSN, "")
	v.SetDefault(KeySentryEnvironment, DefaultSentryEnvironment)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyMinify, false)
}

// Init prepares v: defaults, environment overrides and the config file. An
// explicit configFile must exist. Otherwise .uncss.{yml,yaml,json} is looked
// up in the working directory and then in the home directory; finding none is
// not an error. It returns the path of the file that was loaded, if any.
func Init(v *viper.Viper, configFile string) (string, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		if err := LoadFile(v, configFile); err != nil {
			return "", err
		}
		return configFile, nil
	}

	for _, dir := range searchDirs() {
		for _, ext := range []string{".yml", ".yaml", ".json"} {
			path := filepath.Join(dir, FileName+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := LoadFile(v, path); err != nil {
				return "", fmt.Errorf("error reading config file '%s': %w", path, err)
			}
			return path, nil
		}
	}
	return "", nil
}

// searchDirs lists the directories Init looks in. The current directory has
// higher priority than the home directory.
func searchDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	return dirs
}

// LoadFile reads path, expands ${env://VAR} references and merges the result
// into v.
func LoadFile(v *viper.Viper, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(raw)
	if HasEnvVars(content) {
		content, err = (&EnvSubstituter{}).Substitute(content)
		if err != nil {
			return fmt.Errorf("config env substitution failed: %w", err)
		}
	}

	configType := "yaml"
	if strings.HasSuffix(path, ".json") {
		configType = "json"
	}
	v.SetConfigType(configType)
	if err := v.MergeConfig(strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// FromViper resolves a Config from v and validates it.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		Endpoint:          strings.TrimSpace(v.GetString(KeyEndpoint)),
		Timeout:           v.GetDuration(KeyTimeout),
		SentryDSN:         strings.TrimSpace(v.GetString(KeySentryDSN)),
		SentryEnvironment: v.GetString(KeySentryEnvironment),
		Debug:             v.GetBool(KeyDebug),
		LogFile:           v.GetString(KeyLogFile),
		Minify:            v.GetBool(KeyMinify),
	}
	return c, c.Validate()
}

// Validate checks the fields that would otherwise fail much later.
func (c Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.Endpoint); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("%s must be an absolute http(s) URL, got %q", KeyEndpoint, c.Endpoint))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", KeyTimeout, c.Timeout))
	}
	return errors.Join(errs...)
}

// fileLayout is the on-disk shape written by WriteDefault.
type fileLayout struct {
	Endpoint          string `yaml:"endpoint"`
	Timeout           string `yaml:"timeout"`
	SentryDSN         string `yaml:"sentry-dsn"`
	SentryEnvironment string `yaml:"sentry-environment"`
	Debug             bool   `yaml:"debug"`
	LogFile           string `yaml:"log-file"`
	Minify            bool   `yaml:"minify"`
}

const defaultHeader = `uncss configuration.
Values may reference environment variables as ${env://NAME} or
${env://NAME:-default}. Every key can also be set with UNCSS_<KEY>.`

// DefaultPath returns $HOME/.uncss.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return filepath.Join(home, FileName+".yml"), nil
}

// ErrExists is returned by WriteDefault when the target exists and force is
// false.
var ErrExists = errors.New("config file already exists")

// WriteDefault writes a commented default config to path.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	var doc yaml.Node
	if err := doc.Encode(fileLayout{
		Endpoint:          DefaultEndpoint,
		Timeout:           DefaultTimeout.String(),
		SentryDSN:         "${env://SENTRY_DSN:-}",
		SentryEnvironment: DefaultSentryEnvironment,
	}); err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}
	doc.HeadComment = defaultHeader

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MarshalYAML renders c in the file layout. A configured Sentry DSN is
// replaced by a placeholder so the output can be pasted into bug reports.
func (c Config) MarshalYAML() (any, error) {
	dsn := c.SentryDSN
	if dsn != "" {
		dsn = "<redacted>"
	}
	return fileLayout{
		Endpoint:          c.Endpoint,
		Timeout:           c.Timeout.String(),
		SentryDSN:         dsn,
		SentryEnvironment: c.SentryEnvironment,
		Debug:             c.Debug,
		LogFile:           c.LogFile,
		Minify:            c.Minify,
	}, nil
}
