package relay

import (
	"encoding/json"
	"fmt"
	"log"
)

// Field identifies which buffer field a subscribed path feeds.
type Field int

const (
	FieldPosition Field = iota
	FieldWindSpeed
	FieldWindDirection
	FieldWaterTemperature
	FieldTemperature
	FieldPressure
	FieldHumidity
)

// PathMapping resolves incoming delta paths to buffer fields. It is built
// once at startup from the configured paths and never changes afterwards.
type PathMapping map[string]Field

// Paths holds the seven subscribed telemetry paths.
type Paths struct {
	Position           string
	WindSpeed          string
	WindDirection      string
	WaterTemperature   string
	OutsideTemperature string
	Pressure           string
	Humidity           string
}

// NewPathMapping builds the static path lookup table.
func NewPathMapping(p Paths) PathMapping {
	return PathMapping{
		p.Position:           FieldPosition,
		p.WindSpeed:          FieldWindSpeed,
		p.WindDirection:      FieldWindDirection,
		p.WaterTemperature:   FieldWaterTemperature,
		p.OutsideTemperature: FieldTemperature,
		p.Pressure:           FieldPressure,
		p.Humidity:           FieldHumidity,
	}
}

// All returns the subscribed paths in a stable order.
func (p Paths) All() []string {
	return []string{
		p.Position,
		p.WindSpeed,
		p.WindDirection,
		p.WaterTemperature,
		p.OutsideTemperature,
		p.Pressure,
		p.Humidity,
	}
}

// Ingestor routes raw path/value updates into the buffer.
type Ingestor struct {
	mapping PathMapping
	buf     *Buffer
	debug   bool
}

// NewIngestor creates an Ingestor over the given buffer.
func NewIngestor(mapping PathMapping, buf *Buffer, debug bool) *Ingestor {
	return &Ingestor{
		mapping: mapping,
		buf:     buf,
		debug:   debug,
	}
}

type positionValue struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Ingest applies a single path/value update to the buffer. Values for
// unknown paths are ignored. Malformed values are logged and dropped
// without touching state.
func (i *Ingestor) Ingest(path string, value json.RawMessage) {
	field, ok := i.mapping[path]
	if !ok {
		if i.debug {
			log.Printf("DEBUG: ignoring update for unmapped path %s", path)
		}
		return
	}

	if field == FieldPosition {
		var pos positionValue
		if err := json.Unmarshal(value, &pos); err != nil {
			log.Printf("ERROR: malformed position value on %s: %v", path, err)
			return
		}
		i.buf.SetPosition(pos.Latitude, pos.Longitude)
		return
	}

	num, err := parseNumber(value)
	if err != nil {
		log.Printf("ERROR: malformed value on %s: %v", path, err)
		return
	}

	switch field {
	case FieldWindSpeed:
		i.buf.AddWindSpeed(num)
	case FieldWindDirection:
		i.buf.SetWindDirection(num)
	case FieldWaterTemperature:
		i.buf.SetWaterTemperature(num)
	case FieldTemperature:
		i.buf.SetTemperature(num)
	case FieldPressure:
		i.buf.SetPressure(num)
	case FieldHumidity:
		i.buf.SetHumidity(num)
	}
}

func parseNumber(value json.RawMessage) (float64, error) {
	var num float64
	if err := json.Unmarshal(value, &num); err != nil {
		return 0, fmt.Errorf("expected numeric value, got %s: %w", string(value), err)
	}
	return num, nil
}
