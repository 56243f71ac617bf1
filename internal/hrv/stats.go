package hrv

import "math"

// diff вычисляет разности соседних элементов
func diff(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}

	result := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		result[i-1] = values[i] - values[i-1]
	}
	return result
}

// calculateAverage вычисляет среднее значение, NaN для пустой выборки
func calculateAverage(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateStdDev вычисляет выборочное стандартное отклонение (делитель N-1).
// Для выборки меньше двух элементов возвращает NaN.
func calculateStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values) - 1)

	return math.Sqrt(variance)
}

// calculateRMSSD корень из среднего квадрата последовательных разностей
func calculateRMSSD(rr []float64) float64 {
	successive := diff(rr)
	if len(successive) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, d := range successive {
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(successive)))
}
