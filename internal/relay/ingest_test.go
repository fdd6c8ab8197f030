package relay

import (
	"encoding/json"
	"testing"
)

func testPaths() Paths {
	return Paths{
		Position:           "navigation.position",
		WindSpeed:          "environment.wind.speedOverGround",
		WindDirection:      "environment.wind.directionTrue",
		WaterTemperature:   "environment.water.temperature",
		OutsideTemperature: "environment.outside.temperature",
		Pressure:           "environment.outside.pressure",
		Humidity:           "environment.outside.humidity",
	}
}

func TestIngestPosition(t *testing.T) {
	buf := NewBuffer()
	ing := NewIngestor(NewPathMapping(testPaths()), buf, false)

	ing.Ingest("navigation.position", json.RawMessage(`{"latitude":41.0,"longitude":-70.0}`))

	snap := buf.Snapshot()
	if snap.Position == nil {
		t.Fatal("expected position to be set")
	}
	if snap.Position.Latitude != 41.0 || snap.Position.Longitude != -70.0 {
		t.Errorf("unexpected position: %+v", snap.Position)
	}
}

func TestIngestUnknownPathIsNoop(t *testing.T) {
	buf := NewBuffer()
	ing := NewIngestor(NewPathMapping(testPaths()), buf, false)

	ing.Ingest("navigation.speedOverGround", json.RawMessage(`5.2`))

	snap := buf.Snapshot()
	if snap.Position != nil || len(snap.WindSpeed) != 0 || snap.Temperature != nil {
		t.Errorf("unknown path mutated state: %+v", snap)
	}
}

func TestIngestMalformedValueIsNoop(t *testing.T) {
	buf := NewBuffer()
	ing := NewIngestor(NewPathMapping(testPaths()), buf, false)

	ing.Ingest("environment.wind.speedOverGround", json.RawMessage(`"fast"`))
	ing.Ingest("navigation.position", json.RawMessage(`[1,2]`))

	snap := buf.Snapshot()
	if len(snap.WindSpeed) != 0 {
		t.Errorf("malformed wind speed mutated state: %v", snap.WindSpeed)
	}
}

func TestIngestConfiguredPathOverride(t *testing.T) {
	paths := testPaths()
	paths.WindSpeed = "environment.wind.speedApparent"

	buf := NewBuffer()
	ing := NewIngestor(NewPathMapping(paths), buf, false)

	// The override is matched; the default path no longer is.
	ing.Ingest("environment.wind.speedApparent", json.RawMessage(`6.0`))
	ing.Ingest("environment.wind.speedOverGround", json.RawMessage(`9.0`))

	snap := buf.Snapshot()
	if len(snap.WindSpeed) != 1 || snap.WindSpeed[0] != 6.0 {
		t.Errorf("expected single sample 6.0, got %v", snap.WindSpeed)
	}
}

func TestIngestConversions(t *testing.T) {
	buf := NewBuffer()
	ing := NewIngestor(NewPathMapping(testPaths()), buf, false)

	ing.Ingest("environment.wind.directionTrue", json.RawMessage(`3.141592653589793`))
	ing.Ingest("environment.outside.temperature", json.RawMessage(`300.15`))
	ing.Ingest("environment.outside.humidity", json.RawMessage(`0.455`))
	ing.Ingest("environment.outside.pressure", json.RawMessage(`101325`))

	snap := buf.Snapshot()
	if *snap.WindDirection != 180 {
		t.Errorf("wind direction: expected 180, got %v", *snap.WindDirection)
	}
	if *snap.Temperature != 27.0 {
		t.Errorf("temperature: expected 27.0, got %v", *snap.Temperature)
	}
	if *snap.Humidity != 46 {
		t.Errorf("humidity: expected 46, got %v", *snap.Humidity)
	}
	if *snap.Pressure != 101325 {
		t.Errorf("pressure: expected unconverted 101325, got %v", *snap.Pressure)
	}
}
