// Package planner holds the record store and the pure query layer over it.
package planner

import (
	"fmt"
	"sync"
	"time"

	"github.com/dalvah/planease/internal/apperr"
	"github.com/dalvah/planease/internal/models"
)

// Store is the explicitly owned state container for a session. It is the
// single source of truth for items, alarms, settings, conflicts, and the
// user profile; all mutation goes through its methods. Reads return copies,
// so callers never hold references into store internals.
type Store struct {
	mu        sync.RWMutex
	items     []models.Item
	alarms    []models.Alarm
	conflicts []models.Conflict
	settings  models.Settings
	user      models.User
}

// NewStore creates an empty store with default settings.
func NewStore() *Store {
	return &Store{settings: models.DefaultSettings()}
}

// Items returns a snapshot copy of all items in list order.
func (s *Store) Items() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the item with the given id.
func (s *Store) Item(id int64) (models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return models.Item{}, apperr.ErrNotFound
}

// AddItem validates the item, assigns the next free id (max existing + 1),
// and appends it.
func (s *Store) AddItem(item models.Item) (models.Item, error) {
	if err := item.Validate(); err != nil {
		return models.Item{}, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.nextItemID()
	s.items = append(s.items, item)
	return item, nil
}

// UpdateItem replaces the stored item's fields, keeping its id.
func (s *Store) UpdateItem(id int64, item models.Item) (models.Item, error) {
	if err := item.Validate(); err != nil {
		return models.Item{}, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			item.ID = id
			s.items[i] = item
			return item, nil
		}
	}
	return models.Item{}, apperr.ErrNotFound
}

// DeleteItem removes the item with the given id.
func (s *Store) DeleteItem(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// ToggleComplete flips the completed flag and returns the updated item.
func (s *Store) ToggleComplete(id int64) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Completed = !s.items[i].Completed
			return s.items[i], nil
		}
	}
	return models.Item{}, apperr.ErrNotFound
}

// nextItemID must be called with mu held.
func (s *Store) nextItemID() int64 {
	var max int64
	for _, it := range s.items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}

// Alarms returns a snapshot copy of all alarms in list order.
func (s *Store) Alarms() []models.Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Alarm, len(s.alarms))
	copy(out, s.alarms)
	return out
}

// Alarm returns the alarm with the given id.
func (s *Store) Alarm(id int64) (models.Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alarms {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Alarm{}, apperr.ErrNotFound
}

// AddAlarm validates the alarm, assigns a time-based id (bumped past any
// collision), and appends it.
func (s *Store) AddAlarm(alarm models.Alarm, now time.Time) (models.Alarm, error) {
	if err := alarm.Validate(); err != nil {
		return models.Alarm{}, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := now.UnixMilli()
	for s.alarmExists(id) {
		id++
	}
	alarm.ID = id
	s.alarms = append(s.alarms, alarm)
	return alarm, nil
}

// UpdateAlarm replaces the stored alarm's fields, keeping its id.
func (s *Store) UpdateAlarm(id int64, alarm models.Alarm) (models.Alarm, error) {
	if err := alarm.Validate(); err != nil {
		return models.Alarm{}, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			alarm.ID = id
			s.alarms[i] = alarm
			return alarm, nil
		}
	}
	return models.Alarm{}, apperr.ErrNotFound
}

// DeleteAlarm removes the alarm with the given id.
func (s *Store) DeleteAlarm(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			s.alarms = append(s.alarms[:i], s.alarms[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// ToggleAlarm flips the enabled flag and returns the updated alarm.
func (s *Store) ToggleAlarm(id int64) (models.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			s.alarms[i].Enabled = !s.alarms[i].Enabled
			return s.alarms[i], nil
		}
	}
	return models.Alarm{}, apperr.ErrNotFound
}

// SetAlarms replaces the whole alarm list (persistence load path).
func (s *Store) SetAlarms(alarms []models.Alarm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms = make([]models.Alarm, len(alarms))
	copy(s.alarms, alarms)
}

// alarmExists must be called with mu held.
func (s *Store) alarmExists(id int64) bool {
	for _, a := range s.alarms {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the settings wholesale.
func (s *Store) SetSettings(settings models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// SetNotifications replaces the notifications section.
func (s *Store) SetNotifications(n models.NotificationSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Notifications = n
}

// SetPreferences replaces the preferences section.
func (s *Store) SetPreferences(p models.PreferenceSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Preferences = p
}

// User returns a copy of the user profile.
func (s *Store) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser replaces the user profile.
func (s *Store) SetUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Conflicts returns a snapshot copy of the advisory conflict list.
func (s *Store) Conflicts() []models.Conflict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Conflict, len(s.conflicts))
	copy(out, s.conflicts)
	return out
}

// SetConflicts replaces the advisory conflict list.
func (s *Store) SetConflicts(conflicts []models.Conflict) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = make([]models.Conflict, len(conflicts))
	copy(s.conflicts, conflicts)
}
