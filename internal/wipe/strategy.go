package wipe

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// StrategyID идентификатор стратегии затирания
type StrategyID string

const (
	ZeroFill     StrategyID = "zero"
	RandomFill   StrategyID = "random"
	DoDComposite StrategyID = "dod"
)

// DoDPasses фиксированное число проходов составной стратегии
const DoDPasses = 3

// StrategyDescriptor описание стратегии для меню и отчётов
type StrategyDescriptor struct {
	ID             StrategyID
	DisplayName    string
	FixedPassCount int // 0 - число проходов задает пользователь
}

// EffectivePasses возвращает число проходов, которое реально будет выполнено
func (d StrategyDescriptor) EffectivePasses(requested int) int {
	if d.FixedPassCount > 0 {
		return d.FixedPassCount
	}
	return requested
}

var descriptors = []StrategyDescriptor{
	{ID: ZeroFill, DisplayName: "Zero Fill"},
	{ID: RandomFill, DisplayName: "Random Fill"},
	{ID: DoDComposite, DisplayName: "DoD Wipe (3-pass)", FixedPassCount: DoDPasses},
}

// Strategies возвращает все стратегии в порядке меню
func Strategies() []StrategyDescriptor {
	out := make([]StrategyDescriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Describe возвращает описание стратегии по идентификатору
func Describe(id StrategyID) (StrategyDescriptor, error) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, nil
		}
	}
	return StrategyDescriptor{}, errors.Wrapf(ErrInvalidStrategy, "%q", string(id))
}

// ParseStrategyID проверяет идентификатор стратегии. Принимаются также номера пунктов меню 1-3.
func ParseStrategyID(s string) (StrategyID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zero", "zeros", "1":
		return ZeroFill, nil
	case "random", "2":
		return RandomFill, nil
	case "dod", "dod5220", "3":
		return DoDComposite, nil
	default:
		return "", errors.Wrapf(ErrInvalidStrategy, "%q", s)
	}
}

// Strategy процедура затирания. Набор закрыт: реализации есть только в этом пакете.
type Strategy interface {
	Descriptor() StrategyDescriptor
	Overwrite(path string, passes int, chunkSize int64, del bool) (Outcome, error)
	sealed()
}

// NewStrategy возвращает стратегию, пишущую через ow
func NewStrategy(id StrategyID, ow *Overwriter) (Strategy, error) {
	if ow == nil {
		ow = NewOverwriter(nil)
	}
	switch id {
	case ZeroFill:
		return zeroFillStrategy{ow: ow}, nil
	case RandomFill:
		return randomFillStrategy{ow: ow}, nil
	case DoDComposite:
		return dodCompositeStrategy{random: randomFillStrategy{ow: ow}}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidStrategy, "%q", string(id))
	}
}

type zeroFillStrategy struct {
	ow *Overwriter
}

func (zeroFillStrategy) Descriptor() StrategyDescriptor { return descriptors[0] }

func (s zeroFillStrategy) Overwrite(path string, passes int, chunkSize int64, del bool) (Outcome, error) {
	return s.ow.run(path, passes, chunkSize, del, PatternZero)
}

func (zeroFillStrategy) sealed() {}

type randomFillStrategy struct {
	ow *Overwriter
}

func (randomFillStrategy) Descriptor() StrategyDescriptor { return descriptors[1] }

func (s randomFillStrategy) Overwrite(path string, passes int, chunkSize int64, del bool) (Outcome, error) {
	return s.ow.run(path, passes, chunkSize, del, PatternRandom)
}

func (randomFillStrategy) sealed() {}

// dodCompositeStrategy три прохода случайными данными.
// Проверочного чтения после проходов нет, в отличие от DoD 5220.22-M.
type dodCompositeStrategy struct {
	random randomFillStrategy
}

func (dodCompositeStrategy) Descriptor() StrategyDescriptor { return descriptors[2] }

// Overwrite игнорирует passes и всегда выполняет DoDPasses проходов
func (s dodCompositeStrategy) Overwrite(path string, _ int, chunkSize int64, del bool) (Outcome, error) {
	return s.random.Overwrite(path, DoDPasses, chunkSize, del)
}

func (dodCompositeStrategy) sealed() {}
