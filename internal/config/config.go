package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultBackend         = BackendMPRIS
	defaultRefreshInterval = time.Second
	defaultFetchTimeout    = 3 * time.Second
	defaultSearchLimit     = 5
	defaultLogLevel        = "info"
	defaultWebAPIBaseURL   = "https://api.spotify.com/v1"
	defaultPlayer          = "spotify"
	appDirName             = "spotui"
)

// Backends understood by the playback service factory
const (
	BackendMPRIS  = "mpris"
	BackendWebAPI = "webapi"
)

// Narrow layout tables
const (
	NarrowArt   = "art"
	NarrowPlain = "plain"
)

// LayoutConfig holds layout related options
type LayoutConfig struct {
	Narrow string `toml:"narrow" yaml:"narrow"`
}

// ArtConfig holds album art rendering options
type ArtConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
}

// WebAPIConfig configures the HTTP playback service
type WebAPIConfig struct {
	BaseURL     string `toml:"base_url" yaml:"base_url"`
	AccessToken string `toml:"access_token" yaml:"access_token"`
}

// MPRISConfig configures the D-Bus playback service
type MPRISConfig struct {
	// Player is the MPRIS player suffix (org.mpris.MediaPlayer2.<Player>)
	Player string `toml:"player" yaml:"player"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Backend         string        `toml:"backend" yaml:"backend"`
	RefreshInterval time.Duration `toml:"refresh_interval" yaml:"refresh_interval"`
	FetchTimeout    time.Duration `toml:"fetch_timeout" yaml:"fetch_timeout"`
	SearchLimit     int           `toml:"search_limit" yaml:"search_limit"`
	LogFile         string        `toml:"log_file" yaml:"log_file"`
	LogLevel        string        `toml:"log_level" yaml:"log_level"`
	Layout          LayoutConfig  `toml:"layout" yaml:"layout"`
	Art             ArtConfig     `toml:"art" yaml:"art"`
	WebAPI          WebAPIConfig  `toml:"webapi" yaml:"webapi"`
	MPRIS           MPRISConfig   `toml:"mpris" yaml:"mpris"`

	// path is the file the configuration was read from, empty when none existed
	path string
}

// Options carries command line overrides. Zero values leave the loaded value untouched.
type Options struct {
	Path     string
	Backend  string
	Interval time.Duration
	Debug    bool
}

// Default returns the built-in configuration
func Default() *AppConfig {
	return &AppConfig{
		Backend:         defaultBackend,
		RefreshInterval: defaultRefreshInterval,
		FetchTimeout:    defaultFetchTimeout,
		SearchLimit:     defaultSearchLimit,
		LogFile:         filepath.Join(cacheDir(), appDirName, "spotui.log"),
		LogLevel:        defaultLogLevel,
		Layout:          LayoutConfig{Narrow: NarrowArt},
		Art:             ArtConfig{Enabled: true},
		WebAPI:          WebAPIConfig{BaseURL: defaultWebAPIBaseURL},
		MPRIS:           MPRISConfig{Player: defaultPlayer},
	}
}

// DefaultPath returns the config file used when neither a flag nor SPOTUI_CONFIG names one
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appDirName, "config.toml")
}

// Load builds the configuration: defaults, then the config file, then
// environment variables, then command line options.
// A missing config file is not an error.
func Load(opts Options) (*AppConfig, error) {
	cfg := Default()

	path := opts.Path
	if path == "" {
		path = os.Getenv("SPOTUI_CONFIG")
	}
	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}
	path = expandPath(path)

	if err := cfg.readFile(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return nil, err
		}
	} else {
		cfg.path = path
	}

	cfg.applyEnv()
	cfg.applyOptions(opts)
	cfg.LogFile = expandPath(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Reload re-reads the file the configuration came from, keeping env and option overrides.
func Reload(path string, opts Options) (*AppConfig, error) {
	opts.Path = path
	return Load(opts)
}

// readFile decodes path into c, picking the decoder from the extension
func (c *AppConfig) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv("SPOTUI_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("SPOTUI_ACCESS_TOKEN"); v != "" {
		c.WebAPI.AccessToken = v
	}
	if v := os.Getenv("SPOTUI_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("SPOTUI_PLAYER"); v != "" {
		c.MPRIS.Player = v
	}
}

func (c *AppConfig) applyOptions(opts Options) {
	if opts.Backend != "" {
		c.Backend = opts.Backend
	}
	if opts.Interval > 0 {
		c.RefreshInterval = opts.Interval
	}
	if opts.Debug {
		c.LogLevel = "debug"
	}
}

// Validate reports every invalid field at once
func (c *AppConfig) Validate() error {
	var err error
	switch c.Backend {
	case BackendMPRIS, BackendWebAPI:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendMPRIS, BackendWebAPI))
	}
	if c.RefreshInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval))
	}
	if c.FetchTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout))
	}
	if c.SearchLimit < 1 || c.SearchLimit > 50 {
		err = multierr.Append(err, fmt.Errorf("search_limit must be within 1..50, got %d", c.SearchLimit))
	}
	switch c.Layout.Narrow {
	case NarrowArt, NarrowPlain:
	default:
		err = multierr.Append(err, fmt.Errorf("layout.narrow must be %q or %q, got %q", NarrowArt, NarrowPlain, c.Layout.Narrow))
	}
	if _, lerr := zap.ParseAtomicLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log_level: %w", lerr))
	}
	if c.Backend == BackendWebAPI && c.WebAPI.BaseURL == "" {
		err = multierr.Append(err, errors.New("webapi.base_url is required for the webapi backend"))
	}
	return err
}

// Path returns the config file in use, or "" when running on defaults
func (c *AppConfig) Path() string {
	return c.path
}

// Log writes the effective configuration, leaving secrets out
func (c *AppConfig) Log(logger *zap.Logger) {
	logger.Info("Configuration loaded",
		zap.String("path", c.path),
		zap.String("backend", c.Backend),
		zap.Duration("refreshInterval", c.RefreshInterval),
		zap.Duration("fetchTimeout", c.FetchTimeout),
		zap.Int("searchLimit", c.SearchLimit),
		zap.String("narrowLayout", c.Layout.Narrow),
		zap.Bool("art", c.Art.Enabled),
		zap.Bool("accessToken", c.WebAPI.AccessToken != ""))
}

func cacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return os.TempDir()
}

// expandPath expands environment variables and a leading ~
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}
