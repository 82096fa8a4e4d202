package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dalvah/planease/internal/apperr"
	"github.com/dalvah/planease/internal/models"
	"github.com/dalvah/planease/internal/storage"
)

// StateKey is the storage key the session snapshot is persisted under.
const StateKey = "planease_app_v1"

// persistedState is the durable subset of the store. Sections are pointers
// so an absent field in an older blob leaves the in-memory value untouched
// (shallow, additive merging; never destructive replacement).
type persistedState struct {
	Alarms   []models.Alarm     `json:"alarms,omitempty"`
	Settings *persistedSettings `json:"settings,omitempty"`
	User     *models.User       `json:"user,omitempty"`
}

type persistedSettings struct {
	Notifications *models.NotificationSettings `json:"notifications,omitempty"`
	Preferences   *models.PreferenceSettings   `json:"preferences,omitempty"`
}

// SaveState serializes the alarms, settings, and user profile to a single
// blob. Callers treat a returned error as best-effort: log and move on.
func SaveState(p storage.Provider, s *Store) error {
	settings := s.Settings()
	user := s.User()
	state := persistedState{
		Alarms: s.Alarms(),
		Settings: &persistedSettings{
			Notifications: &settings.Notifications,
			Preferences:   &settings.Preferences,
		},
		User: &user,
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("planner: marshal state: %w", err)
	}
	if err := p.Set(StateKey, data); err != nil {
		return fmt.Errorf("planner: save state: %w", err)
	}
	return nil
}

// LoadState merges a previously saved blob into the store. An absent or
// malformed blob means "no saved state": defaults stand, a warning is
// logged, and boot continues. Unknown fields are ignored.
func LoadState(p storage.Provider, s *Store, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := p.Get(StateKey)
	if errors.Is(err, apperr.ErrNotFound) {
		return
	}
	if err != nil {
		logger.Warn("state load failed", slog.String("error", err.Error()))
		return
	}
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("state blob malformed, keeping defaults", slog.String("error", err.Error()))
		return
	}
	if state.Alarms != nil {
		s.SetAlarms(state.Alarms)
	}
	if state.Settings != nil {
		if state.Settings.Notifications != nil {
			s.SetNotifications(*state.Settings.Notifications)
		}
		if state.Settings.Preferences != nil {
			s.SetPreferences(*state.Settings.Preferences)
		}
	}
	if state.User != nil {
		s.SetUser(*state.User)
	}
}
