package relay

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"signalk-windy-relay/internal/windy"
)

// Submitter sends one aggregated update to the ingestion API.
type Submitter interface {
	Submit(ctx context.Context, update windy.UpdateRequest) error
}

// Service runs the submit and status cycles over a shared buffer.
type Service struct {
	buf     *Buffer
	client  Submitter
	station windy.StationMeta
	now     func() time.Time

	// one submission at a time; an interval elapsing while a request is
	// still in flight skips instead of overlapping
	inFlight atomic.Bool

	statusMu sync.RWMutex
	status   string
}

// NewService creates a Service.
func NewService(buf *Buffer, client Submitter, station windy.StationMeta) *Service {
	return &Service{
		buf:     buf,
		client:  client,
		station: station,
		now:     time.Now,
		status:  "No data has been submitted yet.",
	}
}

// Submit runs one aggregation/submission cycle. When preconditions are not
// met the cycle is skipped and all accumulated state is left untouched; the
// same holds for transport or remote failures, so the next interval retries
// with everything accumulated since.
func (s *Service) Submit(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		log.Println("INFO: previous submission still in flight; skipping this cycle")
		return nil
	}
	defer s.inFlight.Store(false)

	snap := s.buf.Snapshot()
	if !snap.Ready() {
		log.Println("DEBUG: skipping submission: position, wind or temperature not yet received")
		return nil
	}

	obs := windy.Observation{
		Station:  s.station.ID,
		Temp:     *snap.Temperature,
		Wind:     Median(snap.WindSpeed),
		Gust:     snap.WindGust,
		WindDir:  int(*snap.WindDirection),
		Pressure: snap.Pressure,
		RH:       snap.Humidity,
	}

	update := windy.UpdateRequest{
		Stations:     []windy.Station{s.station.NewStation(snap.Position.Latitude, snap.Position.Longitude)},
		Observations: []windy.Observation{obs},
	}

	if err := s.client.Submit(ctx, update); err != nil {
		log.Printf("ERROR: submission failed, keeping accumulated data: %v", err)
		return err
	}

	s.buf.Clear(s.now())
	log.Printf("INFO: submitted observation for station %d (wind %.2f m/s over %d samples)",
		s.station.ID, obs.Wind, len(snap.WindSpeed))
	return nil
}

// UpdateStatus recomputes the human-readable status line, stores it and
// returns it. Wind figures are shown in knots when available.
func (s *Service) UpdateStatus() string {
	snap := s.buf.Snapshot()

	var msg string
	if snap.LastSuccessfulUpdate == nil {
		msg = "No data has been submitted yet."
	} else {
		elapsed := int64(s.now().Sub(*snap.LastSuccessfulUpdate).Seconds())
		msg = fmt.Sprintf("Successful submission %s ago.", timeSince(elapsed))
	}

	if len(snap.WindSpeed) > 0 && snap.WindGust != nil {
		latest := snap.WindSpeed[len(snap.WindSpeed)-1]
		msg = fmt.Sprintf("%s Wind speed: %.1f knots, gust: %.1f knots",
			msg,
			roundTo(latest*metersPerSecondToKnots, 1),
			roundTo(*snap.WindGust*metersPerSecondToKnots, 1))
	}

	s.statusMu.Lock()
	changed := msg != s.status
	s.status = msg
	s.statusMu.Unlock()

	if changed {
		log.Printf("INFO: %s", msg)
	}
	return msg
}

// Status returns the most recently published status line.
func (s *Service) Status() string {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// Snapshot exposes the current buffer contents for diagnostics.
func (s *Service) Snapshot() Snapshot {
	return s.buf.Snapshot()
}
