// Package alarm implements the polling alarm scheduler: periodic evaluation
// of enabled alarms against the wall clock, fire-once-per-minute
// de-duplication, and snooze/dismiss handling.
package alarm

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dalvah/planease/internal/models"
	"github.com/dalvah/planease/internal/planner"
)

// DefaultPollInterval is the tick granularity of the scheduler.
const DefaultPollInterval = 10 * time.Second

// vibratePattern mirrors the original on/off/on buzz.
var vibratePattern = []time.Duration{300 * time.Millisecond, 100 * time.Millisecond, 300 * time.Millisecond}

// Event describes a scheduler state transition, published to listeners.
type Event struct {
	Kind  string       `json:"kind"` // "firing", "dismissed", "snoozed"
	Alarm models.Alarm `json:"alarm"`
}

// Scheduler polls the store's alarms and drives the per-alarm state machine
// Idle → Firing → (Dismissed | Snoozed) → Idle.
//
// Concurrency model: a single internal loop (goroutine) owns all mutable
// scheduler state (last-fired markers, snooze deadlines, the firing alarm).
// Public methods communicate with the loop through channels, so no mutexes
// are required.
type Scheduler struct {
	store    *planner.Store
	clock    Clock
	interval time.Duration
	sounder  Sounder
	vibrator Vibrator
	onEvent  func(Event)
	logger   *slog.Logger

	// Loop-owned state. Only the run loop (or tests on an unstarted
	// scheduler) may touch these.
	lastFired map[int64]string    // alarm id -> minute key last fired
	snoozes   map[int64]time.Time // alarm id -> pending re-fire deadline
	firing    *models.Alarm       // latest firing alarm; later fires replace it

	snoozeCh  chan snoozeReq
	dismissCh chan struct{}
	firingCh  chan chan *models.Alarm
	stopCh    chan struct{}
	stopped   chan struct{}
	running   atomic.Bool
}

type snoozeReq struct {
	id      int64
	minutes int
}

// Options configure a Scheduler.
type Options struct {
	Clock        Clock
	PollInterval time.Duration
	Sounder      Sounder
	Vibrator     Vibrator
	OnEvent      func(Event)
	Logger       *slog.Logger
}

// NewScheduler creates a scheduler over the store's alarms. Zero-value
// options fall back to the system clock, the default poll interval, and a
// silent sounder.
func NewScheduler(store *planner.Store, opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Sounder == nil {
		opts.Sounder = NopSounder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Scheduler{
		store:     store,
		clock:     opts.Clock,
		interval:  opts.PollInterval,
		sounder:   opts.Sounder,
		vibrator:  opts.Vibrator,
		onEvent:   opts.OnEvent,
		logger:    opts.Logger,
		lastFired: make(map[int64]string),
		snoozes:   make(map[int64]time.Time),
		snoozeCh:  make(chan snoozeReq),
		dismissCh: make(chan struct{}),
		firingCh:  make(chan chan *models.Alarm),
		stopCh:    make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Start launches the poll loop with an immediate first check. Starting an
// already running scheduler is a no-op.
func (s *Scheduler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	go s.run()
}

// Stop terminates the poll loop and waits for it to exit. Stopping a
// scheduler that never ran, or twice, is a no-op.
func (s *Scheduler) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.stopCh)
	<-s.stopped
}

// Snooze silences the firing state and schedules a one-shot re-fire of the
// alarm after the given number of minutes. Re-snoozing the same alarm
// replaces any pending deadline, so at most one is pending per alarm.
func (s *Scheduler) Snooze(id int64, minutes int) {
	if !s.running.Load() {
		return
	}
	select {
	case s.snoozeCh <- snoozeReq{id: id, minutes: minutes}:
	case <-s.stopped:
	}
}

// Dismiss stops sound and vibration and clears the firing state. The alarm
// stays scheduled for its next natural daily occurrence.
func (s *Scheduler) Dismiss() {
	if !s.running.Load() {
		return
	}
	select {
	case s.dismissCh <- struct{}{}:
	case <-s.stopped:
	}
}

// Firing returns the currently firing alarm, if any.
func (s *Scheduler) Firing() (models.Alarm, bool) {
	if !s.running.Load() {
		return models.Alarm{}, false
	}
	resp := make(chan *models.Alarm, 1)
	select {
	case s.firingCh <- resp:
	case <-s.stopped:
		return models.Alarm{}, false
	}
	select {
	case a := <-resp:
		if a == nil {
			return models.Alarm{}, false
		}
		return *a, true
	case <-s.stopped:
		return models.Alarm{}, false
	}
}

func (s *Scheduler) run() {
	defer close(s.stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(s.clock.Now())

	for {
		select {
		case <-s.stopCh:
			s.sounder.Stop()
			if s.vibrator != nil {
				s.vibrator.Stop()
			}
			return

		case <-ticker.C:
			s.check(s.clock.Now())

		case req := <-s.snoozeCh:
			s.snooze(req.id, req.minutes, s.clock.Now())

		case <-s.dismissCh:
			s.dismiss()

		case resp := <-s.firingCh:
			resp <- s.firing
		}
	}
}

// check is one poll tick: evaluate due snooze deadlines, then all enabled
// alarms against the current HH:MM wall clock. An alarm fires at most once
// per calendar minute, tracked by its minute-key marker.
func (s *Scheduler) check(now time.Time) {
	for id, deadline := range s.snoozes {
		if now.Before(deadline) {
			continue
		}
		delete(s.snoozes, id)
		if a, err := s.store.Alarm(id); err == nil {
			// Snoozed re-fires bypass the time-match condition.
			s.fire(a, now)
		}
	}

	hhmm := models.ClockOf(now)
	minuteKey := models.MinuteKey(now)
	for _, a := range s.store.Alarms() {
		if !a.Enabled || a.Time != hhmm {
			continue
		}
		if s.lastFired[a.ID] == minuteKey {
			continue
		}
		s.lastFired[a.ID] = minuteKey
		s.fire(a, now)
	}
}

// fire enters the firing state. A fire while another alarm is already firing
// replaces it; only the most recent firing alarm is surfaced.
func (s *Scheduler) fire(a models.Alarm, now time.Time) {
	alarm := a
	s.firing = &alarm
	s.logger.Info("alarm firing",
		slog.Int64("id", a.ID),
		slog.String("time", a.Time.String()),
		slog.String("label", a.Label))

	n := s.store.Settings().Notifications
	if n.Sound {
		if err := s.sounder.PlayLoop(); err != nil {
			s.logger.Warn("alarm sound unavailable", slog.String("error", err.Error()))
		}
	}
	if n.Vibrate && s.vibrator != nil {
		if err := s.vibrator.Vibrate(vibratePattern); err != nil {
			s.logger.Warn("vibration unavailable", slog.String("error", err.Error()))
		}
	}
	s.emit(Event{Kind: "firing", Alarm: a})
}

func (s *Scheduler) dismiss() {
	if s.firing == nil {
		return
	}
	a := *s.firing
	s.silence()
	s.firing = nil
	s.emit(Event{Kind: "dismissed", Alarm: a})
}

func (s *Scheduler) snooze(id int64, minutes int, now time.Time) {
	a, err := s.store.Alarm(id)
	if err != nil {
		return
	}
	s.silence()
	if s.firing != nil && s.firing.ID == id {
		s.firing = nil
	}
	s.snoozes[id] = now.Add(time.Duration(minutes) * time.Minute)
	s.logger.Info("alarm snoozed",
		slog.Int64("id", id),
		slog.Int("minutes", minutes))
	s.emit(Event{Kind: "snoozed", Alarm: a})
}

func (s *Scheduler) silence() {
	s.sounder.Stop()
	if s.vibrator != nil {
		s.vibrator.Stop()
	}
}

func (s *Scheduler) emit(e Event) {
	if s.onEvent != nil {
		s.onEvent(e)
	}
}
