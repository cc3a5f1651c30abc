package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv applies DAYROLL_* overrides on top of base. Unparseable values are
// ignored and the base value kept.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("DAYROLL_STORE"); ok {
		cfg.Store = strings.ToLower(v)
	}
	if v, ok := getEnvString("DAYROLL_DB_PATH"); ok {
		cfg.DBPath = expandHome(v)
	}
	if v, ok := getEnvString("DAYROLL_STATE_FILE"); ok {
		cfg.StatePath = expandHome(v)
	}
	if v, ok := os.LookupEnv("DAYROLL_LOG_FILE"); ok {
		cfg.LogPath = expandHome(strings.TrimSpace(v))
	}
	if v, ok := getEnvString("DAYROLL_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvInt("DAYROLL_REMINDER_HOUR"); ok && v >= 0 && v <= 23 {
		cfg.ReminderHour = v
	}
	if v, ok := getEnvString("DAYROLL_REMINDER_POLL"); ok {
		if _, err := parsePositiveDuration(v); err == nil {
			cfg.ReminderPoll = v
		}
	}
	if v, ok := getEnvString("DAYROLL_NOTIFICATION_TTL"); ok {
		if _, err := parsePositiveDuration(v); err == nil {
			cfg.NotificationTTL = v
		}
	}
	if v, ok := getEnvBool("DAYROLL_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvString("DAYROLL_DEFAULT_FILTER"); ok {
		cfg.DefaultFilter = strings.ToLower(v)
	}
	if v, ok := getEnvInt("DAYROLL_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
