package wipe

import (
	"filewipe_enterprise/internal/config"
	"filewipe_enterprise/internal/logging"
)

// ConfigurationFrom строит проверенную конфигурацию запуска из файла конфигурации
func ConfigurationFrom(cfg *config.Config) (WipeConfiguration, error) {
	id, err := ParseStrategyID(cfg.Wipe.Strategy)
	if err != nil {
		return WipeConfiguration{}, err
	}

	wc := WipeConfiguration{
		StrategyID:      id,
		Passes:          cfg.Wipe.Passes,
		ChunkSize:       cfg.Wipe.ChunkSize,
		DeleteAfterWipe: cfg.Wipe.DeleteAfterWipe,
	}
	if err := wc.Validate(); err != nil {
		return WipeConfiguration{}, err
	}
	return wc, nil
}

// OverwriterFrom создает Overwriter с ограничением скорости и fsync из конфигурации
func OverwriterFrom(cfg *config.Config, logger *logging.EnterpriseLogger) *Overwriter {
	return NewOverwriter(&OverwriterConfig{
		MaxSpeedMBps: cfg.Wipe.MaxSpeedMBps,
		SyncEachPass: cfg.Wipe.SyncEachPass,
		Logger:       logger,
	})
}
