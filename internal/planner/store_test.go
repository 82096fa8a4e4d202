package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/dalvah/planease/internal/apperr"
	"github.com/dalvah/planease/internal/models"
)

func TestStoreItemCRUD(t *testing.T) {
	s := NewStore()

	a, err := s.AddItem(models.Item{Kind: models.KindEvent, Title: "a"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.AddItem(models.Item{Kind: models.KindTask, Title: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", a.ID, b.ID)
	}

	got, err := s.Item(a.ID)
	if err != nil || got.Title != "a" {
		t.Errorf("Item(1) = %+v, %v", got, err)
	}

	updated, err := s.UpdateItem(a.ID, models.Item{Kind: models.KindEvent, Title: "a2"})
	if err != nil || updated.ID != a.ID || updated.Title != "a2" {
		t.Errorf("UpdateItem = %+v, %v", updated, err)
	}

	if err := s.DeleteItem(b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Item(b.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted item lookup = %v, want ErrNotFound", err)
	}
	if err := s.DeleteItem(b.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("double delete = %v, want ErrNotFound", err)
	}
}

func TestStoreIDReuseAfterDelete(t *testing.T) {
	s := NewStore()
	first, _ := s.AddItem(models.Item{Kind: models.KindTask, Title: "one"})
	second, _ := s.AddItem(models.Item{Kind: models.KindTask, Title: "two"})
	if err := s.DeleteItem(second.ID); err != nil {
		t.Fatal(err)
	}
	third, _ := s.AddItem(models.Item{Kind: models.KindTask, Title: "three"})
	if third.ID != first.ID+1 {
		t.Errorf("id after delete = %d, want max+1 = %d", third.ID, first.ID+1)
	}
}

func TestStoreAddItemValidates(t *testing.T) {
	s := NewStore()
	if _, err := s.AddItem(models.Item{Kind: models.KindEvent}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("invalid add = %v, want ErrInvalid", err)
	}
	if len(s.Items()) != 0 {
		t.Error("invalid item must not be stored")
	}
}

func TestStoreToggleComplete(t *testing.T) {
	s := NewStore()
	it, _ := s.AddItem(models.Item{Kind: models.KindTask, Title: "t"})
	toggled, err := s.ToggleComplete(it.ID)
	if err != nil || !toggled.Completed {
		t.Errorf("toggle = %+v, %v", toggled, err)
	}
	back, _ := s.ToggleComplete(it.ID)
	if back.Completed {
		t.Error("second toggle should clear the flag")
	}
	if _, err := s.ToggleComplete(42); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("toggle unknown = %v", err)
	}
}

func TestStoreAlarmIDsAreUnique(t *testing.T) {
	s := NewStore()
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	a, err := s.AddAlarm(models.Alarm{Time: models.NewTimeOfDay(7, 0)}, now)
	if err != nil {
		t.Fatal(err)
	}
	// Same instant again: id must be bumped past the collision.
	b, err := s.AddAlarm(models.Alarm{Time: models.NewTimeOfDay(8, 0)}, now)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Errorf("colliding ids: %d", a.ID)
	}
	if a.ID != now.UnixMilli() || b.ID != now.UnixMilli()+1 {
		t.Errorf("ids = %d, %d", a.ID, b.ID)
	}
}

func TestStoreAlarmValidation(t *testing.T) {
	s := NewStore()
	if _, err := s.AddAlarm(models.Alarm{Label: "no time"}, time.Now()); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("alarm without time = %v, want ErrInvalid", err)
	}
}

func TestStoreSettingsDefaults(t *testing.T) {
	s := NewStore()
	got := s.Settings()
	if !got.Notifications.Enabled || !got.Notifications.Sound || got.Notifications.Vibrate {
		t.Errorf("notification defaults = %+v", got.Notifications)
	}
	if got.Preferences.TimeFormat != "12" || got.Preferences.DateFormat != "mdy" {
		t.Errorf("preference defaults = %+v", got.Preferences)
	}

	n := got.Notifications
	n.Sound = false
	s.SetNotifications(n)
	if after := s.Settings(); after.Notifications.Sound || !after.Notifications.Enabled {
		t.Errorf("SetNotifications = %+v", after.Notifications)
	}
}

func TestStoreSnapshotsAreCopies(t *testing.T) {
	s := NewStore()
	_, _ = s.AddItem(models.Item{Kind: models.KindTask, Title: "t"})
	snap := s.Items()
	snap[0].Title = "mutated"
	if s.Items()[0].Title != "t" {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestSeed(t *testing.T) {
	s := NewStore()
	Seed(s)
	if len(s.Items()) == 0 || len(s.Alarms()) == 0 || len(s.Conflicts()) == 0 {
		t.Errorf("seed left store empty: %d items, %d alarms, %d conflicts",
			len(s.Items()), len(s.Alarms()), len(s.Conflicts()))
	}
	if s.User().FirstName == "" {
		t.Error("seed should set a user profile")
	}
}
