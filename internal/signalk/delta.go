package signalk

import "encoding/json"

// Delta is an incoming delta message from the Signal K stream. Non-delta
// messages (the server hello, subscription acks) decode with no updates
// and are skipped by the reader.
type Delta struct {
	Context string   `json:"context,omitempty"`
	Updates []Update `json:"updates"`
}

// Update is one source's batch of path/value pairs within a delta.
type Update struct {
	Timestamp string      `json:"timestamp,omitempty"`
	Values    []PathValue `json:"values"`
}

// PathValue is a single reported value. The value is kept raw since its
// shape depends on the path (number for most, object for position).
type PathValue struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// First returns the first value of the first update. Deltas carry a single
// value per subscription tick; any further values in the same batch are
// ignored to match the upstream subscription contract.
func (d Delta) First() (PathValue, bool) {
	if len(d.Updates) == 0 || len(d.Updates[0].Values) == 0 {
		return PathValue{}, false
	}
	return d.Updates[0].Values[0], true
}

// subscribeRequest is the subscription sent right after connecting.
type subscribeRequest struct {
	Context   string           `json:"context"`
	Subscribe []subscribeEntry `json:"subscribe"`
}

type subscribeEntry struct {
	Path   string `json:"path"`
	Period int    `json:"period"`
}

// newSubscribeRequest subscribes to the given paths on the own vessel at
// the given period in milliseconds.
func newSubscribeRequest(paths []string, periodMillis int) subscribeRequest {
	entries := make([]subscribeEntry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, subscribeEntry{Path: p, Period: periodMillis})
	}
	return subscribeRequest{
		Context:   "vessels.self",
		Subscribe: entries,
	}
}
