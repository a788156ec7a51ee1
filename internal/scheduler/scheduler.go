// Package scheduler runs recurring jobs on a background goroutine,
// independently of request handling.
//
// Every poll cycle compares each job's next due time with the wall clock and
// runs the jobs that are due, one after another. A job that was due several
// times while the process was busy or down runs once; missed ticks are never
// replayed.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPollInterval is how often the loop checks for due jobs.
const DefaultPollInterval = time.Minute

var ErrStopped = errors.New("scheduler is stopped")

// Job is a unit of recurring work. Returned errors are logged.
type Job func(ctx context.Context) error

type state int

const (
	stateCreated state = iota
	stateRunning
	stateStopped
)

type entry struct {
	name    string
	trigger Trigger
	job     Job
	next    time.Time
}

type Scheduler struct {
	pollInterval time.Duration
	now          func() time.Time
	log          logrus.FieldLogger

	mu      sync.Mutex
	state   state
	entries []*entry
	stop    chan struct{}
	done    chan struct{}
}

type Option func(*Scheduler)

func WithPollInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func New(log logrus.FieldLogger, opts ...Option) *Scheduler {
	s := &Scheduler{
		pollInterval: DefaultPollInterval,
		now:          time.Now,
		log:          log.WithField("component", "scheduler"),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a job. It does not run it; the first run is at
// trigger.Next(now).
func (s *Scheduler) Register(name string, trigger Trigger, job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{name: name, trigger: trigger, job: job, next: trigger.Next(s.now())}
	s.entries = append(s.entries, e)
	s.log.WithFields(logrus.Fields{"job": name, "trigger": trigger.String(), "next": e.next}).Info("job registered")
}

// Start launches the polling loop. Calling it on a running scheduler does
// nothing; a stopped scheduler cannot be restarted.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateRunning:
		return nil
	case stateStopped:
		return ErrStopped
	}

	s.state = stateRunning
	go s.loop()
	s.log.WithField("poll_interval", s.pollInterval).Info("scheduler started")
	return nil
}

// Stop ends the polling loop after the current cycle and waits for it to
// exit. A job in progress is not interrupted. Stop is safe to call before
// Start and more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	prev := s.state
	if prev != stateStopped {
		s.state = stateStopped
		close(s.stop)
	}
	s.mu.Unlock()

	if prev == stateRunning {
		<-s.done
		s.log.Info("scheduler stopped")
	}
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

func (s *Scheduler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.runPending()
		}
	}
}

// runPending runs every due job once and schedules its next run from the
// current time.
func (s *Scheduler) runPending() {
	now := s.now()

	s.mu.Lock()
	var due []*entry
	for _, e := range s.entries {
		if !now.Before(e.next) {
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	for _, e := range due {
		s.run(e)

		s.mu.Lock()
		e.next = e.trigger.Next(s.now())
		s.mu.Unlock()
	}
}

func (s *Scheduler) run(e *entry) {
	log := s.log.WithField("job", e.name)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("panic: %v", r)).Error("job failed")
		}
	}()

	log.Debug("job started")
	if err := e.job(context.Background()); err != nil {
		log.WithError(err).Error("job failed")
		return
	}
	log.WithField("duration", time.Since(start)).Info("job finished")
}
