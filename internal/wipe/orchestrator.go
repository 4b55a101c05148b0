package wipe

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"filewipe_enterprise/internal/logging"
)

// WipeConfiguration параметры одного запуска затирания
type WipeConfiguration struct {
	StrategyID      StrategyID
	Passes          int
	ChunkSize       int64
	DeleteAfterWipe bool
}

// Validate проверяет конфигурацию до любой работы с файлами
func (c WipeConfiguration) Validate() error {
	desc, err := Describe(c.StrategyID)
	if err != nil {
		return err
	}
	if desc.FixedPassCount == 0 && c.Passes < 1 {
		return errors.Wrapf(ErrInvalidConfig, "passes must be >= 1, got %d", c.Passes)
	}
	if c.ChunkSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "chunk size must be positive, got %d", c.ChunkSize)
	}
	return nil
}

// Option настраивает Orchestrator
type Option func(*Orchestrator)

// WithLogger задает логгер
func WithLogger(logger *logging.EnterpriseLogger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithOverwriter задает низкоуровневый писатель
func WithOverwriter(ow *Overwriter) Option {
	return func(o *Orchestrator) { o.overwriter = ow }
}

// WithInspector подключает наблюдателя до/после затирания
func WithInspector(in Inspector) Option {
	return func(o *Orchestrator) { o.inspector = in }
}

// WithSink подключает получателя записей аудита
func WithSink(sink RecordSink) Option {
	return func(o *Orchestrator) { o.sink = sink }
}

// WithClock подменяет источник времени для меток записей
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator прогоняет одну стратегию по целям, изолируя отказы отдельных файлов
type Orchestrator struct {
	cfg        WipeConfiguration
	strategy   Strategy
	passes     int
	overwriter *Overwriter
	inspector  Inspector
	sink       RecordSink
	logger     *logging.EnterpriseLogger
	now        func() time.Time
}

// NewOrchestrator проверяет конфигурацию и создает оркестратор.
// Неизвестная стратегия - фатальная ошибка до обработки любой цели.
func NewOrchestrator(cfg WipeConfiguration, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewNopLogger()
	}
	if o.overwriter == nil {
		o.overwriter = NewOverwriter(&OverwriterConfig{Logger: o.logger})
	}

	strategy, err := NewStrategy(cfg.StrategyID, o.overwriter)
	if err != nil {
		return nil, err
	}
	o.strategy = strategy
	o.passes = strategy.Descriptor().EffectivePasses(cfg.Passes)

	return o, nil
}

// Strategy возвращает описание выбранной стратегии
func (o *Orchestrator) Strategy() StrategyDescriptor {
	return o.strategy.Descriptor()
}

// Passes возвращает фактическое число проходов
func (o *Orchestrator) Passes() int {
	return o.passes
}

// Run обрабатывает цели по одной. На каждую цель создается ровно одна запись.
// Отмена ctx проверяется только между файлами: текущий файл дописывается до конца.
func (o *Orchestrator) Run(ctx context.Context, targets []WipeTarget) ([]WipeRecord, error) {
	desc := o.strategy.Descriptor()
	o.logger.Log("INFO", "Запуск затирания", "strategy", desc.DisplayName, "passes", o.passes,
		"chunk_size", o.cfg.ChunkSize, "delete", o.cfg.DeleteAfterWipe, "targets", len(targets))

	records := make([]WipeRecord, 0, len(targets))
	for i, target := range targets {
		select {
		case <-ctx.Done():
			o.logger.Log("WARN", "Затирание прервано", "processed", i, "remaining", len(targets)-i)
			return records, ctx.Err()
		default:
		}

		rec := o.wipeOne(target)
		records = append(records, rec)
		if o.sink != nil {
			o.sink.Record(rec)
		}
	}

	o.logger.Log("INFO", "Затирание завершено", "records", len(records))
	return records, nil
}

// WipePath сканирует root и затирает найденные файлы
func (o *Orchestrator) WipePath(ctx context.Context, root string) ([]WipeRecord, error) {
	targets, err := NewScanner(o.logger).Scan(root)
	if err != nil {
		return nil, err
	}
	return o.Run(ctx, targets)
}

func (o *Orchestrator) wipeOne(target WipeTarget) WipeRecord {
	desc := o.strategy.Descriptor()
	rec := WipeRecord{
		Path:         target.Path,
		Category:     target.Category,
		SizeBefore:   target.Size,
		StrategyName: desc.DisplayName,
	}

	o.observe("before", target.Path)

	outcome, err := o.overwrite(target.Path)
	if outcome.Sized && outcome.Size != target.Size {
		o.logger.Log("WARN", "Размер файла изменился после сканирования", "file", target.Path,
			"scanned", target.Size, "actual", outcome.Size)
		rec.SizeBefore = outcome.Size
	}
	rec.Deleted = outcome.Deleted
	rec.Passes = outcome.Passes
	rec.ChunkWrites = outcome.ChunkWrites

	switch {
	case err == nil && outcome.Deleted:
		rec.Status = StatusSuccess
	case err == nil:
		rec.Status = StatusKept
	case ReasonOf(err) == ReasonDeletion:
		rec.Status = StatusKept
		rec.Error = err.Error()
	default:
		rec.Status = StatusFailed
		rec.Error = err.Error()
	}

	if !outcome.Deleted {
		o.observe("after", target.Path)
	}

	rec.Timestamp = o.now()

	level := "INFO"
	if rec.Status == StatusFailed {
		level = "ERROR"
	}
	o.logger.Log(level, "Файл обработан", "file", rec.Path, "status", string(rec.Status),
		"size", rec.SizeBefore, "passes", rec.Passes, "deleted", rec.Deleted)

	return rec
}

// overwrite вызывает стратегию; паника внутри превращается в отказ по файлу
func (o *Orchestrator) overwrite(path string) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ioWriteError(path, "overwrite", 0, errors.Newf("panic: %v", r))
		}
	}()
	return o.strategy.Overwrite(path, o.passes, o.cfg.ChunkSize, o.cfg.DeleteAfterWipe)
}

// observe вызывает хук наблюдения; его ошибки не влияют на затирание
func (o *Orchestrator) observe(point, path string) {
	if o.inspector == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.logger.Log("WARN", "Паника в хуке наблюдения", "point", point, "file", path, "panic", fmt.Sprint(r))
		}
	}()

	var err error
	if point == "before" {
		err = o.inspector.Before(path)
	} else {
		err = o.inspector.After(path)
	}
	if err != nil {
		o.logger.Log("WARN", "Ошибка хука наблюдения", "point", point, "file", path, "error", err.Error())
	}
}
