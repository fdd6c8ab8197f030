package relay

import (
	"math"
	"sort"
	"sync"
	"time"
)

const (
	kelvinOffset           = 273.15
	radiansToDegrees       = 57.2958
	metersPerSecondToKnots = 1.94384
)

// Position is the last reported vessel position.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Buffer accumulates the most recent sensor readings between submissions.
// All access goes through its methods; a single mutex serializes the
// subscription callback, the submit job and the status job.
type Buffer struct {
	mu sync.Mutex

	position         *Position
	windSpeed        []float64
	windGust         *float64
	windDirection    *float64
	waterTemperature *float64
	temperature      *float64
	pressure         *float64
	humidity         *float64

	lastSuccessfulUpdate time.Time
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// SetPosition overwrites the last known position. Latitude and longitude
// arrive in degrees already and are passed through unchanged.
func (b *Buffer) SetPosition(lat, lon float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.position = &Position{Latitude: lat, Longitude: lon}
}

// AddWindSpeed appends a wind speed sample (m/s, rounded to 2 decimals)
// and raises the running gust maximum when the sample exceeds it.
func (b *Buffer) AddWindSpeed(ms float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := roundTo(ms, 2)
	b.windSpeed = append(b.windSpeed, v)
	if b.windGust == nil || v > *b.windGust {
		b.windGust = &v
	}
}

// SetWindDirection stores a wind direction given in radians as whole degrees.
func (b *Buffer) SetWindDirection(rad float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	deg := math.Round(rad * radiansToDegrees)
	b.windDirection = &deg
}

// SetWaterTemperature stores a water temperature given in Kelvin as Celsius
// rounded to 1 decimal.
func (b *Buffer) SetWaterTemperature(k float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := roundTo(k-kelvinOffset, 1)
	b.waterTemperature = &c
}

// SetTemperature stores an outside temperature given in Kelvin as Celsius
// rounded to 1 decimal.
func (b *Buffer) SetTemperature(k float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := roundTo(k-kelvinOffset, 1)
	b.temperature = &c
}

// SetPressure stores a pressure reading as-is.
func (b *Buffer) SetPressure(p float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pressure = &p
}

// SetHumidity stores a relative humidity delivered as a 0-1 fraction,
// converted to a whole percentage.
func (b *Buffer) SetHumidity(frac float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pct := math.Round(frac * 100)
	b.humidity = &pct
}

// Snapshot is a point-in-time copy of the buffer contents.
type Snapshot struct {
	Position             *Position  `json:"position,omitempty"`
	WindSpeed            []float64  `json:"windSpeed,omitempty"`
	WindGust             *float64   `json:"windGust,omitempty"`
	WindDirection        *float64   `json:"windDirection,omitempty"`
	WaterTemperature     *float64   `json:"waterTemperature,omitempty"`
	Temperature          *float64   `json:"temperature,omitempty"`
	Pressure             *float64   `json:"pressure,omitempty"`
	Humidity             *float64   `json:"humidity,omitempty"`
	LastSuccessfulUpdate *time.Time `json:"lastSuccessfulUpdate,omitempty"`
}

// Snapshot returns a copy of the current buffer state. The wind speed slice
// and pointed-to values are copied so callers cannot mutate the buffer.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := Snapshot{
		Position:         copyPosition(b.position),
		WindGust:         copyFloat(b.windGust),
		WindDirection:    copyFloat(b.windDirection),
		WaterTemperature: copyFloat(b.waterTemperature),
		Temperature:      copyFloat(b.temperature),
		Pressure:         copyFloat(b.pressure),
		Humidity:         copyFloat(b.humidity),
	}
	if len(b.windSpeed) > 0 {
		snap.WindSpeed = append([]float64(nil), b.windSpeed...)
	}
	if !b.lastSuccessfulUpdate.IsZero() {
		t := b.lastSuccessfulUpdate
		snap.LastSuccessfulUpdate = &t
	}
	return snap
}

// Ready reports whether enough data has accumulated for a submission:
// position, at least one wind speed sample, wind direction and temperature.
func (s Snapshot) Ready() bool {
	return s.Position != nil &&
		len(s.WindSpeed) > 0 &&
		s.WindDirection != nil &&
		s.Temperature != nil
}

// Clear resets every field except lastSuccessfulUpdate, which is set to
// submittedAt. Called only after a successful submission.
func (b *Buffer) Clear(submittedAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.position = nil
	b.windSpeed = nil
	b.windGust = nil
	b.windDirection = nil
	b.waterTemperature = nil
	b.temperature = nil
	b.pressure = nil
	b.humidity = nil
	b.lastSuccessfulUpdate = submittedAt
}

// LastSuccessfulUpdate returns the time of the last successful submission
// and false if none has happened yet.
func (b *Buffer) LastSuccessfulUpdate() (time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSuccessfulUpdate, !b.lastSuccessfulUpdate.IsZero()
}

// Median returns the median of samples without mutating the input:
// the middle element of the ascending sort, or the average of the two
// middle elements for even-length input. Zero for empty input.
func Median(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyPosition(p *Position) *Position {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
