package update

import (
	"time"

	"github.com/sandeepkv93/dayroll/internal/config"
	"github.com/sandeepkv93/dayroll/internal/daily"
	"github.com/sandeepkv93/dayroll/internal/tasks"
)

type RuntimeConfig struct {
	DesktopNotifications bool
	NotificationTTL      time.Duration
	DefaultFilter        tasks.Filter
	Keys                 config.Keymap
	// Startup is the outcome of the load-time rollover, shown once Init runs.
	Startup *daily.Outcome
}

func DefaultRuntimeConfig() RuntimeConfig {
	def := config.Default()
	return RuntimeConfig{
		DesktopNotifications: false,
		NotificationTTL:      def.NotificationDuration(),
		DefaultFilter:        tasks.FilterAll,
		Keys:                 def.Keys,
	}
}

// RuntimeConfigFrom maps the loaded file config onto the UI settings.
func RuntimeConfigFrom(cfg config.Config) RuntimeConfig {
	return RuntimeConfig{
		DesktopNotifications: cfg.DesktopNotifications,
		NotificationTTL:      cfg.NotificationDuration(),
		DefaultFilter:        cfg.Filter(),
		Keys:                 cfg.Keys,
	}
}
