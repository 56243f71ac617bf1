package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"hrv-service/internal/hrv"
)

// DefaultDelimiter разделитель колонок в выгрузке датчика
const DefaultDelimiter = ';'

var (
	ErrEmptyInput        = errors.New("empty upload")
	ErrMissingColumn     = errors.New("missing column")
	ErrInvalidValue      = errors.New("invalid numeric value")
	ErrNonIncreasingTime = errors.New("time values must be strictly increasing")
)

// ParseRecording читает таблицу с заголовком и колонками "Time (s)" и "Voltage (mV)"
func ParseRecording(r io.Reader, delimiter rune) (hrv.Recording, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return hrv.Recording{}, ErrEmptyInput
	}
	if err != nil {
		return hrv.Recording{}, fmt.Errorf("failed to read header: %w", err)
	}

	timeCol, voltageCol := -1, -1
	for i, name := range header {
		switch normalizeHeader(name) {
		case hrv.ColumnTime:
			timeCol = i
		case hrv.ColumnVoltage:
			voltageCol = i
		}
	}
	if timeCol < 0 {
		return hrv.Recording{}, fmt.Errorf("%w: %q", ErrMissingColumn, hrv.ColumnTime)
	}
	if voltageCol < 0 {
		return hrv.Recording{}, fmt.Errorf("%w: %q", ErrMissingColumn, hrv.ColumnVoltage)
	}

	var rec hrv.Recording
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return hrv.Recording{}, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		t, err := parseField(record, timeCol, row, hrv.ColumnTime)
		if err != nil {
			return hrv.Recording{}, err
		}
		v, err := parseField(record, voltageCol, row, hrv.ColumnVoltage)
		if err != nil {
			return hrv.Recording{}, err
		}

		if n := len(rec.Time); n > 0 && t <= rec.Time[n-1] {
			return hrv.Recording{}, fmt.Errorf("%w: row %d has %g after %g", ErrNonIncreasingTime, row, t, rec.Time[n-1])
		}

		rec.Time = append(rec.Time, t)
		rec.Voltage = append(rec.Voltage, v)
	}

	if rec.Len() == 0 {
		return hrv.Recording{}, ErrEmptyInput
	}

	return rec, nil
}

func parseField(record []string, col, row int, name string) (float64, error) {
	if col >= len(record) {
		return 0, fmt.Errorf("%w: row %d has no %q value", ErrInvalidValue, row, name)
	}
	raw := strings.TrimSpace(record[col])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d %q = %q", ErrInvalidValue, row, name, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: row %d %q = %q is not finite", ErrInvalidValue, row, name, raw)
	}
	return v, nil
}

// normalizeHeader убирает BOM и пробелы вокруг имени колонки
func normalizeHeader(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
}
