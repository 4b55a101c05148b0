package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения: FILEWIPE_WIPE_PASSES=5
const EnvPrefix = "FILEWIPE"

var envKeys = []string{
	"security.require_confirmation",
	"wipe.strategy",
	"wipe.passes",
	"wipe.chunk_size",
	"wipe.delete_after_wipe",
	"wipe.max_speed_mbps",
	"wipe.sync_each_pass",
	"logging.level",
	"logging.file",
	"reporting.enabled",
	"reporting.local_path",
	"reporting.format",
	"reporting.audit_db",
}

// ApplyEnv переопределяет поля конфигурации из переменных окружения
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	for _, key := range envKeys {
		if !v.IsSet(key) {
			continue
		}
		if err := SetOption(cfg, key, v.GetString(key)); err != nil {
			return fmt.Errorf("environment override %s_%s: %w", EnvPrefix,
				strings.ToUpper(strings.ReplaceAll(key, ".", "_")), err)
		}
	}

	return nil
}
