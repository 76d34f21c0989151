package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestInit_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()

	used, err := Init(v, "")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if used != "" {
		t.Errorf("expected no config file, got %q", used)
	}

	c, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if c.Endpoint != DefaultEndpoint || c.Timeout != DefaultTimeout {
		t.Errorf("unexpected defaults %+v", c)
	}
	if c.SentryEnvironment != DefaultSentryEnvironment {
		t.Errorf("SentryEnvironment = %q", c.SentryEnvironment)
	}
}

func TestInit_ExplicitFileWithSubstitution(t *testing.T) {
	t.Setenv("UNCSS_TEST_HOST", "uncss.internal")
	path := writeFile(t, t.TempDir(), "custom.yml", `
endpoint: https://${env://UNCSS_TEST_HOST}/api/uncss
timeout: 5s
minify: ${env://UNCSS_TEST_MINIFY:-true}
`)
	v := viper.New()
	used, err := Init(v, path)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if used != path {
		t.Errorf("used = %q", used)
	}

	c, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if c.Endpoint != "https://uncss.internal/api/uncss" {
		t.Errorf("Endpoint = %q", c.Endpoint)
	}
	if c.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s", c.Timeout)
	}
	if !c.Minify {
		t.Error("expected minify from substituted default")
	}
}

func TestInit_JSONFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "uncss.json", `{"endpoint": "http://127.0.0.1:9000/reduce", "debug": true}`)
	v := viper.New()
	if _, err := Init(v, path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	c, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if c.Endpoint != "http://127.0.0.1:9000/reduce" || !c.Debug {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestInit_HomeDirectorySearch(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeFile(t, home, ".uncss.yml", "endpoint: http://home.example/api/uncss\n")

	v := viper.New()
	used, err := Init(v, "")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if got := v.GetString(KeyEndpoint); got != "http://home.example/api/uncss" {
		t.Errorf("endpoint = %q", got)
	}
}

func TestInit_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yml", "endpoint: http://file.example/api/uncss\n")
	t.Setenv("UNCSS_ENDPOINT", "http://env.example/api/uncss")
	t.Setenv("UNCSS_SENTRY_DSN", "https://k@sentry.example/1")

	v := viper.New()
	if _, err := Init(v, path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	c, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if c.Endpoint != "http://env.example/api/uncss" {
		t.Errorf("Endpoint = %q", c.Endpoint)
	}
	if c.SentryDSN != "https://k@sentry.example/1" {
		t.Errorf("SentryDSN = %q", c.SentryDSN)
	}
}

func TestInit_MissingRequiredVariable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yml", "sentry-dsn: ${env://UNCSS_TEST_UNSET_DSN}\n")
	if _, err := Init(viper.New(), path); err == nil {
		t.Fatal("expected substitution error")
	}
}

func TestInit_MissingExplicitFile(t *testing.T) {
	if _, err := Init(viper.New(), filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Endpoint: DefaultEndpoint, Timeout: time.Second}, false},
		{"relative endpoint", Config{Endpoint: "/api/uncss", Timeout: time.Second}, true},
		{"bad scheme", Config{Endpoint: "ftp://x/y", Timeout: time.Second}, true},
		{"zero timeout", Config{Endpoint: DefaultEndpoint}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", ".uncss.yml")
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read default: %v", err)
	}
	if !strings.Contains(string(data), "${env://NAME}") {
		t.Fatalf("expected the header to document the reference syntax:\n%s", data)
	}

	// NAME only appears in the header comment and must not be required.
	t.Setenv("NAME", "")
	v := viper.New()
	if _, err := Init(v, path); err != nil {
		t.Fatalf("Init on written default: %v", err)
	}
	c, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if c.Endpoint != DefaultEndpoint || c.Timeout != DefaultTimeout {
		t.Errorf("unexpected config %+v", c)
	}

	if err := WriteDefault(path, false); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("forced overwrite failed: %v", err)
	}
}

func TestConfig_MarshalYAMLRedactsDSN(t *testing.T) {
	c := Config{
		Endpoint:          "https://uncss.example.com/api/uncss",
		Timeout:           5 * time.Second,
		SentryDSN:         "https://key@sentry.example.com/1",
		SentryEnvironment: "staging",
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "key@sentry") {
		t.Errorf("DSN leaked:\n%s", s)
	}
	for _, want := range []string{"endpoint: https://uncss.example.com/api/uncss", "timeout: 5s", "sentry-dsn: <redacted>", "sentry-environment: staging"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}
