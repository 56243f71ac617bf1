package hrv

import (
	"reflect"
	"testing"
)

func TestLocalMaximaDetect(t *testing.T) {
	tests := []struct {
		name    string
		voltage []float64
		want    []int
	}{
		{"empty", nil, []int{}},
		{"single", []float64{1}, []int{}},
		{"two samples", []float64{1, 2}, []int{}},
		{"one peak", []float64{0, 1, 0}, []int{1}},
		{"mixed", []float64{1, 3, 2, 5, 4, 5, 1}, []int{1, 3, 5}},
		{"plateau is not a peak", []float64{0, 2, 2, 0}, []int{}},
		{"edges never qualify", []float64{5, 1, 5}, []int{}},
		{"monotonic", []float64{1, 2, 3, 4}, []int{}},
		{"negative voltages", []float64{-3, -1, -2, -4, -0.5, -1}, []int{1, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalMaxima{}.Detect(tt.voltage)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Detect(%v) = %v, want %v", tt.voltage, got, tt.want)
			}
		})
	}
}

func TestThresholdDetector(t *testing.T) {
	voltage := []float64{0, 0.3, 0, 1.2, 0, 1.1, 0, 0, 1.5, 0}

	d := ThresholdDetector{MinAmplitude: 1.0}
	got := d.Detect(voltage)
	want := []int{3, 5, 8}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("threshold only: got %v, want %v", got, want)
	}

	d = ThresholdDetector{MinAmplitude: 1.0, MinDistance: 3}
	got = d.Detect(voltage)
	want = []int{3, 8}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("threshold with refractory: got %v, want %v", got, want)
	}

	// Низкий порог без рефрактерного периода совпадает с LocalMaxima
	d = ThresholdDetector{MinAmplitude: -1e9}
	if got, want := d.Detect(voltage), (LocalMaxima{}).Detect(voltage); !reflect.DeepEqual(got, want) {
		t.Errorf("permissive threshold: got %v, want %v", got, want)
	}
}

func TestNewDetector(t *testing.T) {
	d, err := NewDetector("", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name() != DetectorLocalMaxima {
		t.Errorf("Expected default %s, got %s", DetectorLocalMaxima, d.Name())
	}

	d, err = NewDetector(DetectorThreshold, 0.5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	td, ok := d.(ThresholdDetector)
	if !ok {
		t.Fatalf("Expected ThresholdDetector, got %T", d)
	}
	if td.MinAmplitude != 0.5 || td.MinDistance != 10 {
		t.Errorf("unexpected params: %+v", td)
	}

	if _, err := NewDetector(DetectorThreshold, 0, -1); err == nil {
		t.Error("Expected error for negative min distance")
	}
	if _, err := NewDetector("wavelet", 0, 0); err == nil {
		t.Error("Expected error for unknown detector")
	}
}
