package config

// Config is reminderd's application configuration. It covers the ambient
// concerns (logging, storage, the delivery gateway); the user's reminder
// settings themselves live in the storage layer, not here.
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Storage StorageConfig `json:"storage"`
	Gateway GatewayConfig `json:"gateway"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig controls the settings store.
//
// Example:
//
//	"storage": { "driver": "sqlite", "path": "./reminders.db" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// GatewayConfig controls the local notification gateway.
type GatewayConfig struct {
	// Timezone for daily triggers (IANA name). Empty means local time.
	Timezone string `json:"timezone,omitempty"`

	// Permission stands in for the OS notification permission prompt:
	// "granted" (default) or "denied".
	Permission string `json:"permission,omitempty"`

	// Sink selects the delivery channel: "log" (default) or "telegram".
	Sink string `json:"sink,omitempty"`

	Telegram *TelegramConfig `json:"telegram,omitempty"`
}

type TelegramConfig struct {
	Token  string `json:"token"`
	ChatID int64  `json:"chat_id"`
	// SendTimeout is a Go duration string (e.g. "10s").
	SendTimeout string `json:"send_timeout,omitempty"`
}
