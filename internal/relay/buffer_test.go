package relay

import (
	"math"
	"testing"
	"time"
)

func TestAddWindSpeedTracksGust(t *testing.T) {
	buf := NewBuffer()

	samples := []float64{3.2, 7.1, 5.5, 6.9}
	for _, s := range samples {
		buf.AddWindSpeed(s)
	}

	snap := buf.Snapshot()
	if len(snap.WindSpeed) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(snap.WindSpeed))
	}
	if snap.WindGust == nil {
		t.Fatal("expected gust to be set")
	}
	if *snap.WindGust != 7.1 {
		t.Errorf("expected gust 7.1, got %v", *snap.WindGust)
	}
	for _, s := range snap.WindSpeed {
		if s > *snap.WindGust {
			t.Errorf("sample %v exceeds gust %v", s, *snap.WindGust)
		}
	}
}

func TestWindSpeedRounding(t *testing.T) {
	buf := NewBuffer()
	buf.AddWindSpeed(5.126)

	snap := buf.Snapshot()
	if snap.WindSpeed[0] != 5.13 {
		t.Errorf("expected 5.13, got %v", snap.WindSpeed[0])
	}
}

func TestKelvinToCelsius(t *testing.T) {
	buf := NewBuffer()

	buf.SetTemperature(273.15)
	if got := *buf.Snapshot().Temperature; got != 0.0 {
		t.Errorf("273.15K: expected 0.0, got %v", got)
	}

	buf.SetTemperature(300.15)
	if got := *buf.Snapshot().Temperature; got != 27.0 {
		t.Errorf("300.15K: expected 27.0, got %v", got)
	}

	buf.SetWaterTemperature(283.65)
	if got := *buf.Snapshot().WaterTemperature; got != 10.5 {
		t.Errorf("283.65K: expected 10.5, got %v", got)
	}
}

func TestRadiansToDegrees(t *testing.T) {
	buf := NewBuffer()

	buf.SetWindDirection(math.Pi)
	if got := *buf.Snapshot().WindDirection; got != 180 {
		t.Errorf("pi rad: expected 180, got %v", got)
	}

	buf.SetWindDirection(math.Pi / 2)
	if got := *buf.Snapshot().WindDirection; got != 90 {
		t.Errorf("pi/2 rad: expected 90, got %v", got)
	}
}

func TestHumidityFractionToPercent(t *testing.T) {
	buf := NewBuffer()
	buf.SetHumidity(0.455)

	if got := *buf.Snapshot().Humidity; got != 46 {
		t.Errorf("0.455: expected 46, got %v", got)
	}
}

func TestClearKeepsLastSuccessfulUpdate(t *testing.T) {
	buf := NewBuffer()
	buf.SetPosition(41.0, -70.0)
	buf.AddWindSpeed(5.0)
	buf.SetWindDirection(1.0)
	buf.SetTemperature(300.15)
	buf.SetPressure(101325)
	buf.SetHumidity(0.5)
	buf.SetWaterTemperature(285.15)

	submitted := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	buf.Clear(submitted)

	snap := buf.Snapshot()
	if snap.Position != nil || snap.WindSpeed != nil || snap.WindGust != nil ||
		snap.WindDirection != nil || snap.WaterTemperature != nil ||
		snap.Temperature != nil || snap.Pressure != nil || snap.Humidity != nil {
		t.Errorf("expected all readings cleared, got %+v", snap)
	}
	if snap.LastSuccessfulUpdate == nil || !snap.LastSuccessfulUpdate.Equal(submitted) {
		t.Errorf("expected lastSuccessfulUpdate %v, got %v", submitted, snap.LastSuccessfulUpdate)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count averages middle pair", []float64{7, 1, 3, 5}, 4},
		{"single sample", []float64{4.2}, 4.2},
		{"order independent", []float64{9, 2, 7, 4, 1}, 4},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.samples); got != tt.want {
				t.Errorf("Median(%v) = %v; want %v", tt.samples, got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	samples := []float64{5, 1, 3}
	Median(samples)
	if samples[0] != 5 || samples[1] != 1 || samples[2] != 3 {
		t.Errorf("input mutated: %v", samples)
	}
}
