package config

import (
	"fmt"
)

// ApplyProfile применяет профиль затирания к конфигурации
func ApplyProfile(cfg *Config, profile string) error {
	switch profile {
	case "quick":
		cfg.Wipe.Strategy = "zero"
		cfg.Wipe.Passes = 1
		cfg.Wipe.ChunkSize = 8 * 1024 * 1024 // 8MB
		cfg.Wipe.SyncEachPass = false
	case "standard":
		cfg.Wipe.Strategy = "random"
		cfg.Wipe.Passes = 1
		cfg.Wipe.ChunkSize = DefaultChunkSize
		cfg.Wipe.SyncEachPass = true
	case "paranoid":
		cfg.Wipe.Strategy = "dod"
		cfg.Wipe.Passes = 3
		cfg.Wipe.ChunkSize = DefaultChunkSize
		cfg.Wipe.SyncEachPass = true
		cfg.Wipe.DeleteAfterWipe = true
	default:
		return fmt.Errorf("неизвестный профиль: %s", profile)
	}
	return nil
}
