package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"weather-reporter/internal/weather"
)

func testBatch() weather.Batch {
	captured := time.Date(2026, 8, 27, 7, 0, 12, 0, time.Local)
	return weather.Batch{
		{
			City:         "Chennai",
			TemperatureC: 31.2,
			HumidityPct:  70,
			PressureHpa:  1010,
			Description:  "Cloudy",
			WindSpeedMS:  3.2,
			CapturedAt:   captured,
		},
		{
			City:         "Delhi",
			TemperatureC: 28.45,
			HumidityPct:  61,
			PressureHpa:  1008.3,
			Description:  "Haze, Light",
			WindSpeedMS:  1.05,
			CapturedAt:   captured,
		},
	}
}

func TestWriteFilenameEmbedsRunTime(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	w.now = func() time.Time {
		return time.Date(2026, 8, 27, 7, 0, 12, 0, time.Local)
	}

	path, err := w.Write(testBatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(dir, "weather_report_2026-08-27_07-00.csv")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("report file missing: %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	batch := testBatch()

	path, err := w.Write(batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}

	if len(rows) != len(batch)+1 {
		t.Fatalf("row count = %d, want %d", len(rows), len(batch)+1)
	}

	wantHeader := []string{"city", "temperature", "humidity", "pressure", "weather", "wind_speed", "date_time"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	for i, rec := range batch {
		row := rows[i+1]
		if row[0] != rec.City {
			t.Errorf("row %d city = %q, want %q", i, row[0], rec.City)
		}
		for col, want := range map[int]float64{
			1: rec.TemperatureC,
			2: rec.HumidityPct,
			3: rec.PressureHpa,
			5: rec.WindSpeedMS,
		} {
			got, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				t.Fatalf("row %d col %d: %v", i, col, err)
			}
			if got != want {
				t.Errorf("row %d col %d = %v, want %v (precision lost)", i, col, got, want)
			}
		}
		if row[4] != rec.Description {
			t.Errorf("row %d weather = %q, want %q", i, row[4], rec.Description)
		}
		if row[6] != rec.CapturedAt.Format("2006-01-02 15:04:05") {
			t.Errorf("row %d date_time = %q", i, row[6])
		}
	}
}

func TestWriteReportIsWorldReadable(t *testing.T) {
	w := NewWriter(t.TempDir())

	path, err := w.Write(testBatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat report: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Fatalf("report mode = %o, want 644", perm)
	}
}

func TestWriteFailsOnMissingDirectory(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "does-not-exist"))

	if _, err := w.Write(testBatch()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWriteLeavesNoPartialFileOnFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	w := NewWriter(dir)

	w.Write(testBatch())

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("nothing should exist at %s", dir)
	}
}

func TestWriteSameMinuteRunsCollide(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	w.now = func() time.Time {
		return time.Date(2026, 8, 27, 7, 0, 12, 0, time.Local)
	}

	first, err := w.Write(testBatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := w.Write(testBatch()[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Known collision: the later run replaces the earlier file.
	if first != second {
		t.Fatalf("same-minute runs should collide: %q vs %q", first, second)
	}

	f, _ := os.Open(second)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("replaced file should hold the second batch; got %d rows", len(rows))
	}
}
