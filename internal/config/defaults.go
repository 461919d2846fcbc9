package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"database": map[string]interface{}{
			"path":     "~/.reminder/reminders.db",
			"timezone": "", // empty means local time
		},
		"scheduler": map[string]interface{}{
			"poll_interval":  "60s",
			"advance_window": "10m",
			"call_timeout":   "10s",
			"stop_timeout":   "30s",
		},
		"notify": map[string]interface{}{
			"sinks":    []string{SinkDesktop, SinkSound, SinkConsole},
			"app_name": "Reminder",
			"sound":    true,
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   "",
			},
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"history_file":   "~/.reminder/history",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.reminder/config.yaml"
}
