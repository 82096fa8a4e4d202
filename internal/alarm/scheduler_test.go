package alarm

import (
	"errors"
	"testing"
	"time"

	"github.com/dalvah/planease/internal/models"
	"github.com/dalvah/planease/internal/planner"
)

type recordSounder struct {
	plays int
	stops int
	err   error
}

func (r *recordSounder) PlayLoop() error {
	if r.err != nil {
		return r.err
	}
	r.plays++
	return nil
}

func (r *recordSounder) Stop() { r.stops++ }

type recordVibrator struct {
	buzzes int
	stops  int
}

func (r *recordVibrator) Vibrate(pattern []time.Duration) error {
	r.buzzes++
	return nil
}

func (r *recordVibrator) Stop() { r.stops++ }

// testScheduler builds an unstarted scheduler whose internal state machine is
// driven directly through check/snooze/dismiss with explicit instants.
func testScheduler(t *testing.T, store *planner.Store, sounder Sounder) (*Scheduler, *[]Event) {
	t.Helper()
	var events []Event
	s := NewScheduler(store, Options{
		Sounder:  sounder,
		Vibrator: &recordVibrator{},
		OnEvent:  func(e Event) { events = append(events, e) },
	})
	return s, &events
}

func storeWithAlarm(t *testing.T, hhmm models.TimeOfDay, enabled bool) (*planner.Store, models.Alarm) {
	t.Helper()
	store := planner.NewStore()
	a, err := store.AddAlarm(models.Alarm{Time: hhmm, Label: "test", Enabled: enabled}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	return store, a
}

func at(h, m, s int) time.Time {
	return time.Date(2026, 3, 10, h, m, s, 0, time.UTC)
}

func TestFiresOncePerMinute(t *testing.T) {
	store, alarm := storeWithAlarm(t, models.NewTimeOfDay(7, 30), true)
	sounder := &recordSounder{}
	s, events := testScheduler(t, store, sounder)

	// Three poll ticks inside the same minute: exactly one fire.
	s.check(at(7, 30, 0))
	s.check(at(7, 30, 10))
	s.check(at(7, 30, 20))

	if len(*events) != 1 {
		t.Fatalf("events = %d, want 1", len(*events))
	}
	if (*events)[0].Kind != "firing" || (*events)[0].Alarm.ID != alarm.ID {
		t.Errorf("event = %+v", (*events)[0])
	}
	if sounder.plays != 1 {
		t.Errorf("plays = %d, want 1", sounder.plays)
	}
}

func TestRefiresNextDay(t *testing.T) {
	store, _ := storeWithAlarm(t, models.NewTimeOfDay(7, 30), true)
	s, events := testScheduler(t, store, &recordSounder{})

	s.check(at(7, 30, 0))
	s.check(at(7, 30, 0).AddDate(0, 0, 1))

	if len(*events) != 2 {
		t.Errorf("events = %d, want one fire per day", len(*events))
	}
}

func TestDisabledAlarmNeverFires(t *testing.T) {
	store, _ := storeWithAlarm(t, models.NewTimeOfDay(7, 30), false)
	s, events := testScheduler(t, store, &recordSounder{})

	s.check(at(7, 30, 0))
	if len(*events) != 0 {
		t.Errorf("disabled alarm fired: %+v", *events)
	}
}

func TestDismissClearsFiring(t *testing.T) {
	store, alarm := storeWithAlarm(t, models.NewTimeOfDay(7, 30), true)
	sounder := &recordSounder{}
	s, events := testScheduler(t, store, sounder)

	s.check(at(7, 30, 0))
	if s.firing == nil {
		t.Fatal("expected firing state")
	}
	s.dismiss()
	if s.firing != nil {
		t.Error("dismiss should clear firing")
	}
	if sounder.stops == 0 {
		t.Error("dismiss should stop the sound")
	}
	last := (*events)[len(*events)-1]
	if last.Kind != "dismissed" || last.Alarm.ID != alarm.ID {
		t.Errorf("last event = %+v", last)
	}

	// Dismiss with nothing firing is a no-op.
	before := len(*events)
	s.dismiss()
	if len(*events) != before {
		t.Error("idle dismiss emitted an event")
	}
}

func TestSnoozeRefiresAfterDeadline(t *testing.T) {
	store, alarm := storeWithAlarm(t, models.NewTimeOfDay(7, 30), true)
	s, events := testScheduler(t, store, &recordSounder{})

	s.check(at(7, 30, 0))
	s.snooze(alarm.ID, 5, at(7, 30, 10))

	if s.firing != nil {
		t.Error("snooze should clear firing")
	}

	// Before the deadline: nothing.
	s.check(at(7, 34, 0))
	// The alarm's own minute already fired, so only the snooze deadline can
	// re-fire it.
	s.check(at(7, 35, 10))

	kinds := []string{}
	for _, e := range *events {
		kinds = append(kinds, e.Kind)
	}
	want := []string{"firing", "snoozed", "firing"}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events = %v, want %v", kinds, want)
		}
	}
	if len(s.snoozes) != 0 {
		t.Error("deadline should be consumed")
	}
}

func TestResnoozeReplacesDeadline(t *testing.T) {
	store, alarm := storeWithAlarm(t, models.NewTimeOfDay(7, 30), true)
	s, events := testScheduler(t, store, &recordSounder{})

	s.check(at(7, 30, 0))
	s.snooze(alarm.ID, 5, at(7, 30, 10))
	s.snooze(alarm.ID, 10, at(7, 31, 0))

	if len(s.snoozes) != 1 {
		t.Fatalf("pending snoozes = %d, want 1", len(s.snoozes))
	}

	// First deadline (7:35:10) must not fire; only the replacement (7:41:00).
	s.check(at(7, 36, 0))
	fires := countKind(*events, "firing")
	if fires != 1 {
		t.Fatalf("fires after superseded deadline = %d, want 1", fires)
	}
	s.check(at(7, 41, 0))
	if countKind(*events, "firing") != 2 {
		t.Errorf("replacement deadline did not fire: %+v", *events)
	}
}

func TestSnoozedRefireReplacesCurrentFiring(t *testing.T) {
	store := planner.NewStore()
	first, _ := store.AddAlarm(models.Alarm{Time: models.NewTimeOfDay(7, 30), Enabled: true}, at(6, 0, 0))
	second, _ := store.AddAlarm(models.Alarm{Time: models.NewTimeOfDay(7, 35), Enabled: true}, at(6, 0, 1))
	s, _ := testScheduler(t, store, &recordSounder{})

	s.check(at(7, 30, 0))
	s.snooze(first.ID, 5, at(7, 30, 10))

	// The second alarm fires naturally, then the snoozed first re-fires in the
	// same check; the latest fire is the one surfaced.
	s.check(at(7, 35, 20))
	if s.firing == nil {
		t.Fatal("expected firing state")
	}
	if s.firing.ID != second.ID && s.firing.ID != first.ID {
		t.Fatalf("unexpected firing alarm %d", s.firing.ID)
	}
	// Snooze deadlines are evaluated first, so the natural fire lands last.
	if s.firing.ID != second.ID {
		t.Errorf("firing = %d, want latest fire %d", s.firing.ID, second.ID)
	}
}

func TestSoundFallback(t *testing.T) {
	store, _ := storeWithAlarm(t, models.NewTimeOfDay(7, 30), true)
	fallback := &recordSounder{}
	chain := &FallbackSounder{
		Primary:  &recordSounder{err: errors.New("asset missing")},
		Fallback: fallback,
	}
	s, _ := testScheduler(t, store, chain)

	s.check(at(7, 30, 0))
	if fallback.plays != 1 {
		t.Errorf("fallback plays = %d, want 1", fallback.plays)
	}

	s.dismiss()
	if fallback.stops == 0 {
		t.Error("stop should reach the fallback")
	}
}

func TestSoundAndVibrateRespectSettings(t *testing.T) {
	store, _ := storeWithAlarm(t, models.NewTimeOfDay(7, 30), true)
	n := store.Settings().Notifications
	n.Sound = false
	n.Vibrate = true
	store.SetNotifications(n)

	sounder := &recordSounder{}
	vibrator := &recordVibrator{}
	var events []Event
	s := NewScheduler(store, Options{
		Sounder:  sounder,
		Vibrator: vibrator,
		OnEvent:  func(e Event) { events = append(events, e) },
	})

	s.check(at(7, 30, 0))
	if sounder.plays != 0 {
		t.Error("sound disabled in settings must not play")
	}
	if vibrator.buzzes != 1 {
		t.Errorf("vibrates = %d, want 1", vibrator.buzzes)
	}
	if len(events) != 1 {
		t.Errorf("the firing event itself is independent of sound settings, got %d", len(events))
	}
}

func TestStartStopIdempotent(t *testing.T) {
	store, _ := storeWithAlarm(t, models.NewTimeOfDay(7, 30), true)
	s := NewScheduler(store, Options{PollInterval: 10 * time.Millisecond})

	s.Start()
	s.Start() // no-op
	s.Stop()
	s.Stop() // no-op
}

func TestPublicMethodsBeforeStart(t *testing.T) {
	store, alarm := storeWithAlarm(t, models.NewTimeOfDay(7, 30), true)
	s := NewScheduler(store, Options{})

	// Must not block or panic on an unstarted scheduler.
	s.Snooze(alarm.ID, 5)
	s.Dismiss()
	if _, ok := s.Firing(); ok {
		t.Error("nothing can be firing before start")
	}
}

func countKind(events []Event, kind string) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
