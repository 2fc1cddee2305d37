// Package config loads brandstream settings from defaults, a YAML file,
// BRANDSTREAM_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BRANDSTREAM_SERVICE_URL.
const EnvPrefix = "BRANDSTREAM"

// Config is the resolved configuration.
type Config struct {
	Service ServiceConfig `mapstructure:"service" yaml:"service"`
	Colours ColoursConfig `mapstructure:"colours" yaml:"colours"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ServiceConfig locates the extraction service.
type ServiceConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries int           `mapstructure:"retries" yaml:"retries"`
}

// ColoursConfig bounds the colour-count slider.
type ColoursConfig struct {
	Default int `mapstructure:"default" yaml:"default"`
	Min     int `mapstructure:"min" yaml:"min"`
	Max     int `mapstructure:"max" yaml:"max"`
}

// ExportConfig controls where exported images go.
type ExportConfig struct {
	Dir      string `mapstructure:"dir" yaml:"dir"`
	Filename string `mapstructure:"filename" yaml:"filename"`
}

// CacheConfig controls the download cache for image URLs. An empty Dir
// uses the user cache directory; a negative MaxAge always refetches.
type CacheConfig struct {
	Dir    string        `mapstructure:"dir" yaml:"dir"`
	MaxAge time.Duration `mapstructure:"max_age" yaml:"max_age"`
}

// UIConfig holds interactive timings.
type UIConfig struct {
	RefocusSettle  time.Duration `mapstructure:"refocus_settle" yaml:"refocus_settle"`
	CopiedFeedback time.Duration `mapstructure:"copied_feedback" yaml:"copied_feedback"`
	NoticeDuration time.Duration `mapstructure:"notice_duration" yaml:"notice_duration"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"service-url": "service.url",
	"colors":      "colours.default",
	"output-dir":  "export.dir",
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "brandstream", "config.yml")
}

// Load resolves the configuration. path overrides BRANDSTREAM_CONFIG and the
// default location; a missing file is not an error. Flags in flags that were
// set on the command line override everything else.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("service.url", "http://127.0.0.1:5000/extract-colors")
	v.SetDefault("service.timeout", 30*time.Second)
	v.SetDefault("service.retries", 2)
	v.SetDefault("colours.default", 5)
	v.SetDefault("colours.min", 1)
	v.SetDefault("colours.max", 10)
	v.SetDefault("export.dir", defaultExportDir())
	v.SetDefault("export.filename", "brand-palette.png")
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.max_age", 24*time.Hour)
	v.SetDefault("ui.refocus_settle", 300*time.Millisecond)
	v.SetDefault("ui.copied_feedback", time.Second)
	v.SetDefault("ui.notice_duration", 3*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	configPath := path
	if configPath == "" {
		configPath = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultPath()
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// Only the default location may be absent.
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Export.Dir = ExpandHome(cfg.Export.Dir)
	cfg.Log.File = ExpandHome(cfg.Log.File)
	cfg.Cache.Dir = ExpandHome(cfg.Cache.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid service.url %q: must be an http(s) URL", c.Service.URL)
	}
	if c.Service.Timeout <= 0 {
		return fmt.Errorf("invalid service.timeout %s: must be positive", c.Service.Timeout)
	}
	if c.Service.Retries < 0 {
		return fmt.Errorf("invalid service.retries %d: must not be negative", c.Service.Retries)
	}
	if c.Colours.Min < 1 {
		return fmt.Errorf("invalid colours.min %d: must be at least 1", c.Colours.Min)
	}
	if c.Colours.Max < c.Colours.Min {
		return fmt.Errorf("invalid colours.max %d: must be at least colours.min (%d)", c.Colours.Max, c.Colours.Min)
	}
	if c.Colours.Default < c.Colours.Min || c.Colours.Default > c.Colours.Max {
		return fmt.Errorf("invalid colours.default %d: must be between %d and %d", c.Colours.Default, c.Colours.Min, c.Colours.Max)
	}
	if c.Export.Filename == "" || filepath.Base(c.Export.Filename) != c.Export.Filename {
		return fmt.Errorf("invalid export.filename %q: must be a plain file name", c.Export.Filename)
	}
	return nil
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// defaultExportDir is ~/Downloads when it exists, else the working directory.
func defaultExportDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
