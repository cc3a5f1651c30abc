// Package config loads dayroll settings from a TOML file and DAYROLL_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sandeepkv93/dayroll/internal/storage"
	"github.com/sandeepkv93/dayroll/internal/tasks"
)

const (
	AppName               = "dayroll"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "dayroll.db"
	DefaultStateName      = "dayroll.json"
	DefaultLogName        = "dayroll.log"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	AddTomorrow string `toml:"add_tomorrow"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Wrap        string `toml:"wrap"`
	NextFilter  string `toml:"next_filter"`
	PrevFilter  string `toml:"prev_filter"`
	Palette     string `toml:"palette"`
	Help        string `toml:"help"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
}

type Config struct {
	Store                string `toml:"store"`
	DBPath               string `toml:"db_path"`
	StatePath            string `toml:"state_path"`
	LogPath              string `toml:"log_path"`
	LogLevel             string `toml:"log_level"`
	ReminderHour         int    `toml:"reminder_hour"`
	ReminderPoll         string `toml:"reminder_poll"`
	NotificationTTL      string `toml:"notification_ttl"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
	DefaultFilter        string `toml:"default_filter"`
	SchedulerBuffer      int    `toml:"scheduler_buffer"`
	Keys                 Keymap `toml:"keys"`
}

func Default() Config {
	data := DefaultDataDir()
	return Config{
		Store:                string(storage.BackendSQLite),
		DBPath:               filepath.Join(data, DefaultDBName),
		StatePath:            filepath.Join(data, DefaultStateName),
		LogPath:              filepath.Join(data, DefaultLogName),
		LogLevel:             "info",
		ReminderHour:         19,
		ReminderPoll:         "1h",
		NotificationTTL:      "3s",
		DesktopNotifications: false,
		DefaultFilter:        string(tasks.FilterAll),
		SchedulerBuffer:      16,
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			AddTomorrow: "A",
			Up:          "k",
			Down:        "j",
			Toggle:      " ",
			Delete:      "d",
			Wrap:        "w",
			NextFilter:  "tab",
			PrevFilter:  "shift+tab",
			Palette:     ":",
			Help:        "?",
			Confirm:     "enter",
			Cancel:      "esc",
		},
	}
}

// Path resolves the config file: an explicit flag wins, then
// $DAYROLL_CONFIG, then the XDG config directory.
func Path(flag string) string {
	if p := strings.TrimSpace(flag); p != "" {
		return expandHome(p)
	}
	if p := strings.TrimSpace(os.Getenv("DAYROLL_CONFIG")); p != "" {
		return expandHome(p)
	}
	return filepath.Join(DefaultConfigDir(), DefaultConfigFileName)
}

// DefaultConfigDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultDataDir uses XDG_DATA_HOME if set, otherwise $HOME/.local/share.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// LoadOrCreate reads path, writing the defaults there first when it does
// not exist yet. Keys missing from the file keep their default values.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Load is LoadOrCreate followed by environment overrides and validation.
func Load(path string) (Config, error) {
	cfg, err := LoadOrCreate(path)
	if err != nil {
		return cfg, err
	}
	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) normalize() {
	def := Default()
	if strings.TrimSpace(c.Store) == "" {
		c.Store = def.Store
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = def.DBPath
	}
	if strings.TrimSpace(c.StatePath) == "" {
		c.StatePath = def.StatePath
	}
	c.DBPath = expandHome(c.DBPath)
	c.StatePath = expandHome(c.StatePath)
	c.LogPath = expandHome(c.LogPath)
	if c.SchedulerBuffer <= 0 {
		c.SchedulerBuffer = def.SchedulerBuffer
	}
}

func (c Config) Validate() error {
	switch storage.Backend(c.Store) {
	case storage.BackendSQLite, storage.BackendFile, storage.BackendMemory:
	default:
		return fmt.Errorf("%w: store %q", ErrInvalidConfig, c.Store)
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("%w: reminder_hour %d", ErrInvalidConfig, c.ReminderHour)
	}
	if !tasks.Filter(c.DefaultFilter).IsValid() {
		return fmt.Errorf("%w: default_filter %q", ErrInvalidConfig, c.DefaultFilter)
	}
	if _, err := parsePositiveDuration(c.ReminderPoll); err != nil {
		return fmt.Errorf("%w: reminder_poll: %v", ErrInvalidConfig, err)
	}
	if _, err := parsePositiveDuration(c.NotificationTTL); err != nil {
		return fmt.Errorf("%w: notification_ttl: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Backend() storage.Backend {
	return storage.Backend(c.Store)
}

// StorePath is the file the selected backend persists to.
func (c Config) StorePath() string {
	if c.Backend() == storage.BackendFile {
		return c.StatePath
	}
	return c.DBPath
}

func (c Config) Filter() tasks.Filter {
	return tasks.Filter(c.DefaultFilter)
}

func (c Config) ReminderPollInterval() time.Duration {
	d, err := parsePositiveDuration(c.ReminderPoll)
	if err != nil {
		return time.Hour
	}
	return d
}

func (c Config) NotificationDuration() time.Duration {
	d, err := parsePositiveDuration(c.NotificationTTL)
	if err != nil {
		return 3 * time.Second
	}
	return d
}

func parsePositiveDuration(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
