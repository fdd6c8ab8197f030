package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"signalk-windy-relay/internal/relay"
)

// Scheduler drives the two recurring jobs: the submit cycle and the
// status report.
type Scheduler struct {
	scheduler      *gocron.Scheduler
	service        *relay.Service
	submitInterval time.Duration
	statusInterval time.Duration
}

// New creates a new Scheduler.
func New(submitInterval, statusInterval time.Duration, service *relay.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:      s,
		service:        service,
		submitInterval: submitInterval,
		statusInterval: statusInterval,
	}
}

// Start schedules both jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.submitInterval.Minutes())
	if minutes <= 0 {
		minutes = 5
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.service.Submit(ctx); err != nil {
			log.Printf("scheduler: submit cycle failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	seconds := int(s.statusInterval.Seconds())
	if seconds <= 0 {
		seconds = 5
	}

	_, err = s.scheduler.Every(seconds).Seconds().Do(func() {
		s.service.UpdateStatus()
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels both jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
