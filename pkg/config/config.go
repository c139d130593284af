package config

import (
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config is loaded from an optional YAML file named by CONFIG_FILE and then
// from the environment, which takes precedence. Keys are the lower-cased
// environment variable names.
type Config struct {
	DatabaseURL               string        `koanf:"database_url" validate:"required" json:"-"`
	DatabaseDebug             bool          `koanf:"database_debug" json:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5" json:"-"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s" json:"-"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5" json:"-"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s" json:"-"`
	DatabaseCacheSizeMiB      int           `koanf:"database_cache_size_mib" default:"256" json:"database_cache_size_mib"`

	// Interface is the host:port the HTTP service listens on.
	Interface string `koanf:"interface" json:"-"`
	// WorkDir holds scratch files created while serving downloads.
	WorkDir string `koanf:"work_dir" json:"-"`

	Languages    []string      `koanf:"languages" default:"[\"ru\",\"rus\",\"russian\",\"ru-ru\"]" json:"languages"`
	HeaderLimit  int           `koanf:"header_limit" default:"1048576" json:"header_limit"`
	EntryTimeout time.Duration `koanf:"entry_timeout" json:"entry_timeout"`
}

const configFileENV = "CONFIG_FILE"

var validate = validator.New()

func New() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(configFileENV); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "loading %s", path)
			}
		}
	}

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		// Empty variables are skipped so they don't mask the file.
		if value == "" {
			return "", nil
		}
		key = strings.ToLower(key)
		if key == "languages" {
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}
	// Defaults only fill zero values, so they go in after the sources.
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.normalize()

	if err := validate.Struct(cfg); err != nil {
		return nil, missingConfigError(err)
	}

	return cfg, nil
}

// NewForTest returns a configuration backed by an in-memory database.
func NewForTest() *Config {
	cfg := &Config{
		DatabaseURL: ":memory:",
		Interface:   "127.0.0.1:0",
		WorkDir:     os.TempDir(),
	}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	cfg.normalize()
	return cfg
}

// DatabasePath returns the SQLite file name from DatabaseURL, accepting the
// sqlite: and sqlite:// forms.
func (c *Config) DatabasePath() string {
	path := c.DatabaseURL
	for _, prefix := range []string{"sqlite://", "sqlite:"} {
		if strings.HasPrefix(path, prefix) {
			return strings.TrimPrefix(path, prefix)
		}
	}
	return path
}

// RequireInterface is checked by commands that serve HTTP.
func (c *Config) RequireInterface() error {
	if c.Interface == "" {
		return errors.New("missing required config: INTERFACE (interface)")
	}
	return nil
}

// AcceptsLanguage reports whether books in lang should be loaded.
func (c *Config) AcceptsLanguage(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func (c *Config) normalize() {
	langs := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			langs = append(langs, l)
		}
	}
	c.Languages = langs
	if c.WorkDir == "" {
		c.WorkDir = os.TempDir()
	}
}

func missingConfigError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := toSnakeCase(fe.StructField())
		names = append(names, strings.ToUpper(key)+" ("+key+")")
	}
	return errors.Errorf("missing required config: %s", strings.Join(names, ", "))
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
