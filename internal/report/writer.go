package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"weather-reporter/internal/weather"
)

// Column order follows the Record field order.
var csvHeader = []string{"city", "temperature", "humidity", "pressure", "weather", "wind_speed", "date_time"}

const (
	// fileTimestampLayout stamps filenames to the minute; runs within the
	// same minute produce the same name and the later run replaces the file.
	fileTimestampLayout = "2006-01-02_15-04"

	// rowTimestampLayout is the capture-time format inside the CSV.
	rowTimestampLayout = "2006-01-02 15:04:05"
)

// Writer serializes a batch to a timestamped CSV file in dir.
type Writer struct {
	dir string
	now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{
		dir: dir,
		now: time.Now,
	}
}

// Write serializes the batch to weather_report_<date>_<time>.csv and returns
// the file path. The file is assembled under a temporary name and renamed
// into place, so a failed write leaves nothing addressable at the report path.
func (w *Writer) Write(batch weather.Batch) (string, error) {
	name := fmt.Sprintf("weather_report_%s.csv", w.now().Format(fileTimestampLayout))
	path := filepath.Join(w.dir, name)

	tmp, err := os.CreateTemp(w.dir, name+".tmp")
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}

	if err := writeCSV(tmp, batch); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	// CreateTemp opens 0600; the report itself should be world-readable.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("chmod report %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close report %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename report %s: %w", path, err)
	}

	return path, nil
}

func writeCSV(f *os.File, batch weather.Batch) error {
	cw := csv.NewWriter(f)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range batch {
		row := []string{
			rec.City,
			formatFloat(rec.TemperatureC),
			formatFloat(rec.HumidityPct),
			formatFloat(rec.PressureHpa),
			rec.Description,
			formatFloat(rec.WindSpeedMS),
			rec.CapturedAt.Format(rowTimestampLayout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatFloat uses the shortest representation that parses back exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
