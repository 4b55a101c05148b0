package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"filewipe_enterprise/internal/config"
	"filewipe_enterprise/internal/logging"
	"filewipe_enterprise/internal/reporting"
)

const (
	Version = reporting.Version
	AppName = "FileWipe Enterprise"

	// Exit codes
	EXIT_SUCCESS = 0
	EXIT_ERROR   = 1
	EXIT_WARNING = 2
)

// errFailedRecords хотя бы один файл не удалось затереть
var errFailedRecords = errors.New("некоторые файлы не удалось затереть")

var (
	cfg        *config.Config
	logger     *logging.EnterpriseLogger
	verbose    bool
	configPath string
	profile    string
)

// CLI команды
var rootCmd = &cobra.Command{
	Use:           "filewipe",
	Short:         "FileWipe Enterprise - безопасное затирание файлов",
	Long:          "Enterprise утилита для безопасного затирания файлов и папок с отчётами и журналом аудита",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadRuntime()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробный вывод")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "filewipe.yaml", "Путь к конфигурации")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Профиль затирания (quick/standard/paranoid)")

	rootCmd.AddCommand(newScanCmd(), newWipeCmd(), newStrategiesCmd(), newReportCmd(), newConfigCmd(), newInteractiveCmd())
}

// loadRuntime загружает конфигурацию (файл, профиль, окружение) и создает логгер
func loadRuntime() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "ошибка загрузки конфигурации")
	}

	// Применяем профиль если указан
	if profile != "" {
		if err := config.ApplyProfile(cfg, profile); err != nil {
			return errors.Wrapf(err, "ошибка применения профиля %s", profile)
		}
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return errors.Wrap(err, "ошибка загрузки конфигурации")
	}

	logger, err = logging.NewEnterpriseLogger(cfg, verbose)
	if err != nil {
		return errors.Wrap(err, "ошибка инициализации логгера")
	}

	if profile != "" {
		logger.Log("INFO", "Применён профиль", "profile", profile)
	}
	return nil
}

func exitCode(err error) int {
	if err == nil {
		return EXIT_SUCCESS
	}
	if errors.Is(err, errFailedRecords) {
		return EXIT_WARNING
	}
	return EXIT_ERROR
}

func main() {
	if checkInteractiveMode() {
		initInteractiveMode()
		return
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(exitCode(err))
	}
	os.Exit(EXIT_SUCCESS)
}
