package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"filewipe_enterprise/internal/audit"
	"filewipe_enterprise/internal/config"
	"filewipe_enterprise/internal/reporting"
	"filewipe_enterprise/internal/system"
	"filewipe_enterprise/internal/wipe"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <путь>",
		Short: "Показать файлы, которые будут затерты",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := normalizePath(args[0])
			targets, err := wipe.NewScanner(logger).Scan(root)
			if err != nil {
				return errors.Wrap(err, "ошибка сканирования")
			}

			out := cmd.OutOrStdout()
			printTargets(out, targets)

			if vol, err := system.VolumeFor(root); err == nil {
				fmt.Fprintf(out, "Том: свободно %s из %s", humanize.IBytes(vol.FreeBytes), humanize.IBytes(vol.TotalBytes))
				if vol.IsSystem {
					fmt.Fprint(out, " (системный)")
				}
				fmt.Fprintln(out)
			} else {
				logger.Log("DEBUG", "Информация о томе недоступна", "path", root, "error", err.Error())
			}
			return nil
		},
	}
}

func printTargets(out io.Writer, targets []wipe.WipeTarget) {
	var total int64
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSIZE\tPATH")
	for _, t := range targets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Category, humanize.IBytes(uint64(t.Size)), t.Path)
		total += t.Size
	}
	tw.Flush()
	fmt.Fprintf(out, "\nФайлов: %d, общий размер: %s\n", len(targets), humanize.IBytes(uint64(total)))
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "Показать доступные стратегии затирания",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tID\tNAME\tPASSES")
			for i, d := range wipe.Strategies() {
				passes := "настраивается"
				if d.FixedPassCount > 0 {
					passes = fmt.Sprintf("%d (фикс.)", d.FixedPassCount)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, d.ID, d.DisplayName, passes)
			}
			tw.Flush()
		},
	}
}

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "История запусков из журнала аудита",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Показать последние запуски",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			ledger, err := openLedger()
			if err != nil {
				return err
			}
			defer ledger.Close()

			runs, err := ledger.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Журнал аудита пуст")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tDATE\tSTRATEGY\tFILES\tOK\tKEPT\tFAILED\tFREED\tROOT")
			for _, r := range runs {
				s := r.Summary
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n", r.RunID,
					r.Timestamp.Local().Format("2006-01-02 15:04:05"), r.Strategy, s.TotalRecords,
					s.TotalSuccess, s.TotalKept, s.TotalFailure, humanize.IBytes(uint64(s.TotalBytesFreed)), r.Root)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().Int("limit", 20, "Количество запусков (0 - все)")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Показать отчёт о запуске",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			ledger, err := openLedger()
			if err != nil {
				return err
			}
			defer ledger.Close()

			report, err := loadReport(cmd.Context(), ledger, args[0])
			if err != nil {
				return err
			}
			return reporting.WriteReport(cmd.OutOrStdout(), report, format)
		},
	}
	showCmd.Flags().String("format", "txt", "Формат вывода (json/txt/csv)")

	reportCmd.AddCommand(listCmd, showCmd)
	return reportCmd
}

func openLedger() (*audit.Ledger, error) {
	if cfg.Reporting.AuditDB == "" {
		return nil, errors.New("журнал аудита не настроен (reporting.audit_db)")
	}
	return audit.Open(cfg.Reporting.AuditDB)
}

// loadReport восстанавливает отчёт о запуске из журнала аудита
func loadReport(ctx context.Context, ledger *audit.Ledger, runID string) (*reporting.Report, error) {
	run, err := ledger.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	records, err := ledger.RunRecords(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &reporting.Report{
		RunID:     run.RunID,
		Version:   run.Version,
		Timestamp: run.Timestamp.Local(),
		Root:      run.Root,
		Strategy:  run.Strategy,
		Passes:    run.Passes,
		ChunkSize: run.ChunkSize,
		Delete:    run.Delete,
		Records:   records,
		Summary:   run.Summary,
		Duration:  run.Duration,
	}, nil
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Управление конфигурацией",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Создать файл конфигурации со значениями по умолчанию",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(configPath); err == nil && !force {
				return errors.Newf("файл %s уже существует (используйте --force)", configPath)
			}
			if err := config.Save(config.Default(), configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Конфигурация сохранена: %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolP("force", "f", false, "Перезаписать существующий файл")

	setCmd := &cobra.Command{
		Use:   "set <ключ> <значение>",
		Short: "Изменить опцию (например: wipe.passes 5)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Сохраняем файл без профиля и переменных окружения
			fileCfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := config.SetOption(fileCfg, args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(fileCfg, configPath); err != nil {
				return err
			}
			logger.Log("INFO", "Опция конфигурации изменена", "key", args[0], "value", args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Показать действующую конфигурацию",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	configCmd.AddCommand(initCmd, setCmd, showCmd)
	return configCmd
}
