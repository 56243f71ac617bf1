package hrv

import "fmt"

// Имена стратегий детекции пиков
const (
	DetectorLocalMaxima = "local_maxima"
	DetectorThreshold   = "threshold"
)

// PeakDetector стратегия поиска R-пиков в последовательности напряжений
type PeakDetector interface {
	Name() string
	// Detect возвращает индексы пиков по возрастанию
	Detect(voltage []float64) []int
}

// LocalMaxima строгие локальные максимумы по трем соседним отсчетам.
// Без порога амплитуды и без фильтрации шума.
type LocalMaxima struct{}

// Name возвращает имя стратегии
func (LocalMaxima) Name() string { return DetectorLocalMaxima }

// Detect находит индексы i, для которых v[i-1] < v[i] > v[i+1]
func (LocalMaxima) Detect(voltage []float64) []int {
	peaks := make([]int, 0)
	for i := 1; i < len(voltage)-1; i++ {
		if isLocalMax(voltage, i) {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// ThresholdDetector локальные максимумы с порогом амплитуды
// и рефрактерным периодом в отсчетах
type ThresholdDetector struct {
	MinAmplitude float64
	MinDistance  int
}

// Name возвращает имя стратегии
func (d ThresholdDetector) Name() string { return DetectorThreshold }

// Detect отбрасывает пики ниже порога и пики ближе MinDistance к предыдущему принятому
func (d ThresholdDetector) Detect(voltage []float64) []int {
	peaks := make([]int, 0)
	last := -1
	for i := 1; i < len(voltage)-1; i++ {
		if !isLocalMax(voltage, i) || voltage[i] < d.MinAmplitude {
			continue
		}
		if last >= 0 && i-last < d.MinDistance {
			continue
		}
		peaks = append(peaks, i)
		last = i
	}
	return peaks
}

func isLocalMax(v []float64, i int) bool {
	return v[i-1] < v[i] && v[i] > v[i+1]
}

// NewDetector создает стратегию по имени
func NewDetector(name string, threshold float64, minDistance int) (PeakDetector, error) {
	switch name {
	case "", DetectorLocalMaxima:
		return LocalMaxima{}, nil
	case DetectorThreshold:
		if minDistance < 0 {
			return nil, fmt.Errorf("min distance must be non-negative, got %d", minDistance)
		}
		return ThresholdDetector{MinAmplitude: threshold, MinDistance: minDistance}, nil
	default:
		return nil, fmt.Errorf("unknown peak detector %q", name)
	}
}
