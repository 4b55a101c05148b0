package reporting

import (
	"sync"

	"filewipe_enterprise/internal/wipe"
)

// Summary сводные счётчики запуска
type Summary struct {
	TotalRecords    int   `json:"total_records"`
	TotalSuccess    int   `json:"total_success"`
	TotalKept       int   `json:"total_kept"`
	TotalFailure    int   `json:"total_failure"`
	TotalBytesFreed int64 `json:"total_bytes_freed"`
}

// ReportAggregator упорядоченный журнал записей только на добавление
type ReportAggregator struct {
	mu      sync.Mutex
	records []wipe.WipeRecord
	summary Summary
}

// NewReportAggregator создает пустой агрегатор
func NewReportAggregator() *ReportAggregator {
	return &ReportAggregator{}
}

// Record добавляет запись и обновляет счётчики. Дубликаты путей не схлопываются.
func (a *ReportAggregator) Record(rec wipe.WipeRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = append(a.records, rec)
	a.summary.TotalRecords++

	switch rec.Status {
	case wipe.StatusSuccess:
		a.summary.TotalSuccess++
		a.summary.TotalBytesFreed += rec.SizeBefore
	case wipe.StatusKept:
		a.summary.TotalKept++
	case wipe.StatusFailed:
		a.summary.TotalFailure++
	}
}

// Summary возвращает текущие счётчики
func (a *ReportAggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary
}

// Records возвращает копию записей в порядке поступления
func (a *ReportAggregator) Records() []wipe.WipeRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]wipe.WipeRecord, len(a.records))
	copy(out, a.records)
	return out
}
