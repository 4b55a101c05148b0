package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"filewipe_enterprise/internal/audit"
	"filewipe_enterprise/internal/config"
	"filewipe_enterprise/internal/inspect"
	"filewipe_enterprise/internal/reporting"
	"filewipe_enterprise/internal/security"
	"filewipe_enterprise/internal/wipe"
)

type wipeOptions struct {
	hexdump bool
	force   bool
}

func newWipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wipe <путь>",
		Short: "Затереть файл или все файлы в папке",
		Args:  cobra.ExactArgs(1),
		RunE:  runWipe,
	}
	cmd.Flags().StringP("strategy", "s", "", "Стратегия затирания (zero/random/dod или 1/2/3)")
	cmd.Flags().IntP("passes", "p", 0, "Количество проходов")
	cmd.Flags().String("chunk-size", "", "Размер блока записи (например: 1MiB, 4MB)")
	cmd.Flags().Bool("delete", true, "Удалить файлы после затирания")
	cmd.Flags().Float64("max-speed", 0, "Ограничение скорости записи, MB/s (0 - без ограничения)")
	cmd.Flags().BoolP("force", "f", false, "Пропустить подтверждение")
	cmd.Flags().Bool("hexdump", false, "Показать hex-дамп начала файла до и после затирания")
	return cmd
}

// applyWipeFlags переносит явно заданные флаги в конфигурацию с проверкой значений
func applyWipeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("strategy") {
		v, _ := flags.GetString("strategy")
		if err := config.SetOption(cfg, "wipe.strategy", v); err != nil {
			return err
		}
	}
	if flags.Changed("passes") {
		v, _ := flags.GetInt("passes")
		if err := config.SetOption(cfg, "wipe.passes", strconv.Itoa(v)); err != nil {
			return err
		}
	}
	if flags.Changed("chunk-size") {
		v, _ := flags.GetString("chunk-size")
		size, err := humanize.ParseBytes(v)
		if err != nil {
			return errors.Wrapf(err, "неверный размер блока %q", v)
		}
		if err := config.SetOption(cfg, "wipe.chunk_size", strconv.FormatUint(size, 10)); err != nil {
			return err
		}
	}
	if flags.Changed("delete") {
		v, _ := flags.GetBool("delete")
		if err := config.SetOption(cfg, "wipe.delete_after_wipe", strconv.FormatBool(v)); err != nil {
			return err
		}
	}
	if flags.Changed("max-speed") {
		v, _ := flags.GetFloat64("max-speed")
		if err := config.SetOption(cfg, "wipe.max_speed_mbps", strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}

func runWipe(cmd *cobra.Command, args []string) error {
	if err := applyWipeFlags(cmd, cfg); err != nil {
		return errors.Wrap(err, "некорректные параметры")
	}

	wc, err := wipe.ConfigurationFrom(cfg)
	if err != nil {
		return err
	}

	opts := wipeOptions{}
	opts.force, _ = cmd.Flags().GetBool("force")
	opts.hexdump, _ = cmd.Flags().GetBool("hexdump")

	// Установка обработчиков сигналов: текущий файл дописывается, следующие не начинаются
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Log("WARN", "Получен сигнал, затирание остановится после текущего файла", "signal", sig.String())
			fmt.Printf("\n[INFO] Получен сигнал %s, завершаем после текущего файла...\n", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	_, err = executeWipe(ctx, normalizePath(args[0]), wc, opts, os.Stdin, os.Stdout)
	return err
}

// executeWipe проверяет путь, сканирует, спрашивает подтверждение, затирает и сохраняет отчёт.
// Возвращает nil-отчёт, если пользователь отказался или файлов нет.
func executeWipe(ctx context.Context, root string, wc wipe.WipeConfiguration, opts wipeOptions, in io.Reader, out io.Writer) (*reporting.Report, error) {
	if err := wc.Validate(); err != nil {
		return nil, err
	}
	if err := security.Check(root, cfg); err != nil {
		logger.Log("ERROR", "Путь не прошел проверку", "path", root, "error", err.Error())
		return nil, err
	}

	targets, err := wipe.NewScanner(logger).Scan(root)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка сканирования")
	}
	if len(targets) == 0 {
		fmt.Fprintln(out, "Нет файлов для затирания")
		return nil, nil
	}

	desc, _ := wipe.Describe(wc.StrategyID)
	passes := desc.EffectivePasses(wc.Passes)

	if !opts.force && cfg.Security.RequireConfirmation {
		printTargets(out, targets)
		fmt.Fprintf(out, "\nВНИМАНИЕ: %d файлов будут затерты методом %q (%d проходов)", len(targets), desc.DisplayName, passes)
		if wc.DeleteAfterWipe {
			fmt.Fprint(out, " и удалены")
		}
		fmt.Fprint(out, ".\nПродолжить? (y/N): ")
		if !confirm(in) {
			logger.Log("INFO", "Операция отменена пользователем")
			fmt.Fprintln(out, "Операция отменена")
			return nil, nil
		}
	}

	agg := reporting.NewReportAggregator()
	orchOpts := []wipe.Option{
		wipe.WithLogger(logger),
		wipe.WithOverwriter(wipe.OverwriterFrom(cfg, logger)),
		wipe.WithSink(agg),
	}
	if opts.hexdump {
		orchOpts = append(orchOpts, wipe.WithInspector(inspect.NewHexDumper(out, inspect.DefaultLength)))
	}

	orch, err := wipe.NewOrchestrator(wc, orchOpts...)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	records, runErr := orch.Run(ctx, targets)
	endTime := time.Now()

	printRecords(out, records)

	report := reporting.GenerateReport(agg, reporting.RunInfo{
		Root:      root,
		Strategy:  desc.DisplayName,
		Passes:    orch.Passes(),
		ChunkSize: wc.ChunkSize,
		Delete:    wc.DeleteAfterWipe,
		StartTime: startTime,
		EndTime:   endTime,
	})
	saveReport(report, out)

	s := report.Summary
	fmt.Fprintf(out, "\nИтого: %d файлов, удалено %d, сохранено %d, ошибок %d, освобождено %s\n",
		s.TotalRecords, s.TotalSuccess, s.TotalKept, s.TotalFailure, humanize.IBytes(uint64(s.TotalBytesFreed)))

	if runErr != nil {
		return report, errors.Wrapf(runErr, "затирание прервано после %d из %d файлов", len(records), len(targets))
	}
	if s.TotalFailure > 0 {
		return report, errors.Wrapf(errFailedRecords, "%d из %d", s.TotalFailure, s.TotalRecords)
	}
	return report, nil
}

// saveReport пишет файл отчёта и строку в журнал аудита. Ошибки не прерывают работу.
func saveReport(report *reporting.Report, out io.Writer) {
	if !cfg.Reporting.Enabled {
		return
	}

	path, err := reporting.SaveReport(report, cfg)
	if err != nil {
		logger.Log("WARN", "Ошибка сохранения отчёта", "error", err.Error())
	} else {
		logger.Log("INFO", "Отчёт сохранён", "run_id", report.RunID, "file", path)
		fmt.Fprintf(out, "Отчёт сохранён: %s\n", path)
	}

	if cfg.Reporting.AuditDB == "" {
		return
	}
	ledger, err := audit.Open(cfg.Reporting.AuditDB)
	if err != nil {
		logger.Log("WARN", "Журнал аудита недоступен", "path", cfg.Reporting.AuditDB, "error", err.Error())
		return
	}
	defer ledger.Close()

	if err := ledger.SaveRun(context.Background(), report); err != nil {
		logger.Log("WARN", "Ошибка записи в журнал аудита", "run_id", report.RunID, "error", err.Error())
		return
	}
	logger.Log("INFO", "Запуск записан в журнал аудита", "run_id", report.RunID)
}

func confirm(in io.Reader) bool {
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes" || response == "д"
}

func statusMark(status wipe.Status) string {
	switch status {
	case wipe.StatusSuccess:
		return "✓"
	case wipe.StatusKept:
		return "⚠"
	default:
		return "✗"
	}
}

func printRecords(out io.Writer, records []wipe.WipeRecord) {
	fmt.Fprintln(out, "\nРезультаты затирания:")
	fmt.Fprintln(out, "==================")
	for _, rec := range records {
		fmt.Fprintf(out, "%s [%s] %s - %s (%s)\n", statusMark(rec.Status), rec.Category, rec.Path,
			rec.Status, humanize.IBytes(uint64(rec.SizeBefore)))
		if rec.Error != "" {
			fmt.Fprintf(out, "  Ошибка: %s\n", rec.Error)
		}
	}
}
