package models

import (
	"encoding/json"
	"math"

	"hrv-service/internal/hrv"
)

// Float число, которое кодируется в JSON как null, если оно NaN или Inf
type Float float64

// MarshalJSON реализует json.Marshaler
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON реализует json.Unmarshaler, null превращается в NaN
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// HRVMetrics метрики ВСР в ответе API
type HRVMetrics struct {
	MeanRR Float `json:"MeanRR"`
	SDNN   Float `json:"SDNN"`
	RMSSD  Float `json:"RMSSD"`
}

// RRRow строка таблицы RR-интервалов
type RRRow struct {
	Timestamp float64 `json:"timestamp"`
	RR        float64 `json:"rr"`
}

// AnalysisResponse ответ POST /analyze
type AnalysisResponse struct {
	HRVMetrics HRVMetrics `json:"hrvMetrics"`
	RRTable    []RRRow    `json:"rrTable"`
}

// ErrorResponse ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewAnalysisResponse собирает ответ из результата анализа
func NewAnalysisResponse(res *hrv.Result) AnalysisResponse {
	rows := make([]RRRow, len(res.Intervals))
	for i, iv := range res.Intervals {
		rows[i] = RRRow{Timestamp: iv.Timestamp, RR: iv.RR}
	}

	return AnalysisResponse{
		HRVMetrics: HRVMetrics{
			MeanRR: Float(res.Metrics.MeanRR),
			SDNN:   Float(res.Metrics.SDNN),
			RMSSD:  Float(res.Metrics.RMSSD),
		},
		RRTable: rows,
	}
}
