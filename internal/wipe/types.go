package wipe

import (
	"time"
)

// Category семантическая категория файла по расширению
type Category string

const (
	CategoryText    Category = "Text"
	CategoryImage   Category = "Image"
	CategoryVideo   Category = "Video"
	CategoryArchive Category = "Archive"
	CategoryOther   Category = "Other"
)

// Status итоговое состояние файла после затирания
type Status string

const (
	// StatusSuccess содержимое затерто и файл удален
	StatusSuccess Status = "Success"
	// StatusKept содержимое затерто, файл остался на месте
	StatusKept Status = "Kept"
	// StatusFailed ошибка ввода-вывода во время прохода
	StatusFailed Status = "Failed"
)

// WipeTarget файл, выбранный для затирания. Создается только сканером.
type WipeTarget struct {
	Path     string
	Size     int64
	Category Category
}

// WipeRecord запись аудита по одному файлу
type WipeRecord struct {
	Path         string    `json:"path"`
	Category     Category  `json:"category"`
	SizeBefore   int64     `json:"size_before"`
	Deleted      bool      `json:"deleted"`
	Status       Status    `json:"status"`
	StrategyName string    `json:"strategy"`
	Timestamp    time.Time `json:"timestamp"`
	Passes       int       `json:"passes"`
	ChunkWrites  int       `json:"chunk_writes"`
	Error        string    `json:"error,omitempty"`
}

// Outcome результат работы стратегии над одним файлом
type Outcome struct {
	Wiped        bool
	Deleted      bool
	Passes       int
	ChunkWrites  int
	BytesWritten uint64
	Size         int64 // длина файла перед первым проходом
	Sized        bool  // Size измерен
}

// Inspector наблюдает за файлом до и после затирания.
// Ошибки и паники хуков логируются и не влияют на ход затирания.
type Inspector interface {
	Before(path string) error
	After(path string) error
}

// RecordSink получает записи аудита в порядке обработки
type RecordSink interface {
	Record(rec WipeRecord)
}
