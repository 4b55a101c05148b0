package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"filewipe_enterprise/internal/config"
	"filewipe_enterprise/internal/wipe"
)

// Version версия формата отчёта
const Version = "1.0.0"

// RunInfo параметры запуска, попадающие в отчёт
type RunInfo struct {
	Root      string
	Strategy  string
	Passes    int
	ChunkSize int64
	Delete    bool
	StartTime time.Time
	EndTime   time.Time
}

// Report представляет отчёт о запуске затирания
type Report struct {
	RunID     string            `json:"run_id"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Root      string            `json:"root"`
	Strategy  string            `json:"strategy"`
	Passes    int               `json:"passes"`
	ChunkSize int64             `json:"chunk_size"`
	Delete    bool              `json:"delete"`
	Records   []wipe.WipeRecord `json:"records"`
	Summary   Summary           `json:"summary"`
	Duration  string            `json:"duration"`
}

// GenerateReport собирает отчёт из записей агрегатора
func GenerateReport(agg *ReportAggregator, info RunInfo) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Version:   Version,
		Timestamp: info.StartTime,
		Root:      info.Root,
		Strategy:  info.Strategy,
		Passes:    info.Passes,
		ChunkSize: info.ChunkSize,
		Delete:    info.Delete,
		Records:   agg.Records(),
		Summary:   agg.Summary(),
		Duration:  info.EndTime.Sub(info.StartTime).String(),
	}
}

// SaveReport сохраняет отчёт в каталог отчётов и возвращает путь к файлу
func SaveReport(report *Report, cfg *config.Config) (string, error) {
	if !cfg.Reporting.Enabled {
		return "", nil
	}

	if err := os.MkdirAll(cfg.Reporting.LocalPath, 0755); err != nil {
		return "", errors.Wrap(err, "ошибка создания директории для отчётов")
	}

	format := cfg.Reporting.Format
	filename := fmt.Sprintf("filewipe_report_%s.%s", report.Timestamp.Format("20060102_150405"), format)
	path := filepath.Join(cfg.Reporting.LocalPath, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания файла отчёта")
	}
	defer f.Close()

	if err := WriteReport(f, report, format); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "ошибка записи отчёта")
	}

	return path, nil
}

// WriteReport выводит отчёт в заданном формате: json, txt или csv
func WriteReport(w io.Writer, report *Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "ошибка сериализации отчёта")
		}
		return nil
	case "txt":
		return writeText(w, report)
	case "csv":
		return writeCSV(w, report)
	default:
		return errors.Newf("неподдерживаемый формат: %s", format)
	}
}

func writeText(w io.Writer, report *Report) error {
	fmt.Fprintf(w, "Secure Wiping Report\n")
	fmt.Fprintf(w, "====================\n")
	fmt.Fprintf(w, "Run ID:        %s\n", report.RunID)
	fmt.Fprintf(w, "Date:          %s\n", report.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Path wiped:    %s\n", report.Root)
	fmt.Fprintf(w, "Wipe strategy: %s (%d passes)\n", report.Strategy, report.Passes)
	fmt.Fprintf(w, "Duration:      %s\n\n", report.Duration)

	s := report.Summary
	fmt.Fprintf(w, "Total files:        %d\n", s.TotalRecords)
	fmt.Fprintf(w, "Wiped and removed:  %d\n", s.TotalSuccess)
	fmt.Fprintf(w, "Wiped (kept):       %d\n", s.TotalKept)
	fmt.Fprintf(w, "Failed:             %d\n", s.TotalFailure)
	fmt.Fprintf(w, "Total size freed:   %s (%d bytes)\n\n", humanize.IBytes(uint64(s.TotalBytesFreed)), s.TotalBytesFreed)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tPATH\tCATEGORY\tSIZE\tSTATUS\tSTRATEGY")
	for _, rec := range report.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Path, rec.Category,
			humanize.IBytes(uint64(rec.SizeBefore)), rec.Status, rec.StrategyName)
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	header := []string{"time", "path", "category", "size_bytes", "deleted", "status", "strategy", "passes", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range report.Records {
		row := []string{
			rec.Timestamp.Format(time.RFC3339),
			rec.Path,
			string(rec.Category),
			strconv.FormatInt(rec.SizeBefore, 10),
			strconv.FormatBool(rec.Deleted),
			string(rec.Status),
			rec.StrategyName,
			strconv.Itoa(rec.Passes),
			rec.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
