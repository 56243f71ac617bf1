package hrv

import (
	"errors"
	"fmt"
	"math"
)

// Имена колонок входной таблицы
const (
	ColumnTime    = "Time (s)"
	ColumnVoltage = "Voltage (mV)"
)

var (
	// ErrInsufficientPeaks найдено меньше двух R-пиков
	ErrInsufficientPeaks = errors.New("Not enough R-peaks to compute HRV")
	// ErrLengthMismatch колонки времени и напряжения разной длины
	ErrLengthMismatch = errors.New("time and voltage columns differ in length")
	// ErrInvalidOffset стартовый индекс вне диапазона отсчетов
	ErrInvalidOffset = errors.New("start index out of range")
	// ErrNonFiniteInterval время удара или RR-интервал не является конечным числом
	ErrNonFiniteInterval = errors.New("non-finite RR interval")
)

// Recording таблица отсчетов: время в секундах и напряжение в мВ
type Recording struct {
	Time    []float64
	Voltage []float64
}

// Len возвращает число отсчетов
func (r Recording) Len() int {
	return len(r.Time)
}

// Interval RR-интервал, Timestamp - время начального удара
type Interval struct {
	Timestamp float64
	RR        float64
}

// Metrics сводная статистика ВСР
type Metrics struct {
	MeanRR float64
	SDNN   float64
	RMSSD  float64
}

// Result результат анализа одной записи
type Result struct {
	Metrics   Metrics
	Intervals []Interval
	// Peaks индексы в усеченной последовательности
	Peaks []int
}

// Estimator вычисляет RR-интервалы и метрики ВСР.
// Не хранит состояния между вызовами.
type Estimator struct {
	detector PeakDetector
}

// NewEstimator создает оценщик; nil означает LocalMaxima
func NewEstimator(detector PeakDetector) *Estimator {
	if detector == nil {
		detector = LocalMaxima{}
	}
	return &Estimator{detector: detector}
}

// Detector возвращает используемую стратегию
func (e *Estimator) Detector() PeakDetector {
	return e.detector
}

// Analyze отбрасывает отсчеты до offset, ищет пики и считает метрики
func (e *Estimator) Analyze(rec Recording, offset int) (*Result, error) {
	if len(rec.Time) != len(rec.Voltage) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(rec.Time), len(rec.Voltage))
	}
	if offset < 0 || offset >= rec.Len() {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidOffset, offset, rec.Len())
	}

	times := rec.Time[offset:]
	voltages := rec.Voltage[offset:]

	peaks := e.detector.Detect(voltages)
	beats := make([]float64, len(peaks))
	for i, idx := range peaks {
		beats[i] = times[idx]
	}

	if len(beats) < 2 {
		return nil, ErrInsufficientPeaks
	}

	rr := RRIntervals(beats)
	intervals := make([]Interval, len(rr))
	for k := range rr {
		if !isFinite(beats[k]) || !isFinite(rr[k]) {
			return nil, fmt.Errorf("%w: beat at %g, rr %g", ErrNonFiniteInterval, beats[k], rr[k])
		}
		intervals[k] = Interval{Timestamp: beats[k], RR: rr[k]}
	}

	return &Result{
		Metrics:   ComputeMetrics(rr),
		Intervals: intervals,
		Peaks:     peaks,
	}, nil
}

// RRIntervals разности между соседними временами ударов, порядок сохраняется
func RRIntervals(beatTimes []float64) []float64 {
	return diff(beatTimes)
}

// ComputeMetrics считает MeanRR, SDNN и RMSSD.
// SDNN и RMSSD равны NaN, если интервал всего один.
func ComputeMetrics(rr []float64) Metrics {
	mean := calculateAverage(rr)
	return Metrics{
		MeanRR: mean,
		SDNN:   calculateStdDev(rr, mean),
		RMSSD:  calculateRMSSD(rr),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
