package bridgelog

import "time"

// Level classifies bridge log entries.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelCron  Level = "cron"
)

// Entry is one persisted bridge log line. ShippedAt marks delivery to the
// external notification channel; nil entries are still pending.
type Entry struct {
	ID        int64
	Level     Level
	Message   string
	CreatedAt time.Time
	ShippedAt *time.Time
}
