// Package models defines the domain types for PlanEase.
package models

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind distinguishes the two item variants.
type Kind string

const (
	KindEvent Kind = "event"
	KindTask  Kind = "task"
)

// Category classifies an item by area of life.
type Category string

const (
	CategorySchool   Category = "school"
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
)

// Priority applies to tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Mode describes how an item takes place and which location field applies:
// face-to-face items carry an address, online and hybrid items a link.
// ModeNone is only meaningful inside weekly templates ("no class that day").
type Mode string

const (
	ModeNone   Mode = "none"
	ModeOnline Mode = "online"
	ModeF2F    Mode = "f2f"
	ModeHybrid Mode = "hybrid"
)

// Reminder is a lead-time tag attached to an item. It is informational in
// this core; reminders are not separately scheduled.
type Reminder string

const (
	ReminderNone  Reminder = "none"
	Reminder10Min Reminder = "10m"
	Reminder30Min Reminder = "30m"
	Reminder1Hour Reminder = "1h"
	Reminder1Day  Reminder = "1d"
)

// Item is the unified event-or-task record. Dates are calendar dates and
// times are canonical 24-hour wall-clock values; divergent external formats
// are converted at the import and persistence boundaries.
type Item struct {
	ID          int64     `json:"id"`
	Kind        Kind      `json:"kind"`
	Category    Category  `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Mode        Mode      `json:"mode,omitempty"`
	StartDate   Date      `json:"start_date"`
	StartTime   TimeOfDay `json:"start_time,omitempty"`
	EndDate     Date      `json:"end_date,omitempty"`
	EndTime     TimeOfDay `json:"end_time,omitempty"`
	DueDate     Date      `json:"due_date,omitempty"`
	Priority    Priority  `json:"priority,omitempty"`
	Reminder    Reminder  `json:"reminder,omitempty"`
	Repeat      string    `json:"repeat,omitempty"`
	Completed   bool      `json:"completed"`
}

// Due returns the task's due date, falling back to the start date when the
// due date is unset.
func (i Item) Due() Date {
	if !i.DueDate.IsZero() {
		return i.DueDate
	}
	return i.StartDate
}

// Validate checks the fields a caller-supplied item must carry before it
// enters the store.
func (i Item) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required),
		validation.Field(&i.Kind, validation.Required, validation.In(KindEvent, KindTask)),
		validation.Field(&i.Category, validation.In(CategorySchool, CategoryWork, CategoryPersonal)),
		validation.Field(&i.Priority, validation.In(PriorityLow, PriorityMedium, PriorityHigh)),
		validation.Field(&i.Mode, validation.In(ModeOnline, ModeF2F, ModeHybrid)),
	)
}

// Alarm is a recurring daily wall-clock alarm.
type Alarm struct {
	ID      int64     `json:"id"`
	Time    TimeOfDay `json:"time"`
	Label   string    `json:"label"`
	Enabled bool      `json:"enabled"`
}

// Validate requires a trigger time.
func (a Alarm) Validate() error {
	if a.Time.IsZero() {
		return validation.NewError("validation_alarm_time", "alarm time is required")
	}
	return nil
}

// Conflict is a read-only advisory describing an overlap between two items.
// It is precomputed; detection is out of scope for this core.
type Conflict struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NotificationSettings control alarm delivery.
type NotificationSettings struct {
	Enabled         bool   `json:"enabled"`
	Sound           bool   `json:"sound"`
	Vibrate         bool   `json:"vibrate"`
	DefaultReminder string `json:"default_reminder"`
}

// PreferenceSettings hold display preferences.
type PreferenceSettings struct {
	DefaultView string `json:"default_view"`
	TimeFormat  string `json:"time_format"`
	DateFormat  string `json:"date_format"`
}

// Settings is the persisted user settings blob.
type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Preferences   PreferenceSettings   `json:"preferences"`
}

// DefaultSettings returns the in-memory defaults used when no persisted
// settings exist.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			Enabled:         true,
			Sound:           true,
			Vibrate:         false,
			DefaultReminder: "1h",
		},
		Preferences: PreferenceSettings{
			DefaultView: "home",
			TimeFormat:  "12",
			DateFormat:  "mdy",
		},
	}
}

// User is the account profile persisted alongside settings.
type User struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	AccountCreated Date   `json:"account_created,omitempty"`
}

// Validate requires both names and a plausible email address.
func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.FirstName, validation.Required),
		validation.Field(&u.LastName, validation.Required),
		validation.Field(&u.Email, validation.Required, validation.By(func(v interface{}) error {
			s, _ := v.(string)
			if !strings.Contains(s, "@") {
				return validation.NewError("validation_email", "must be a valid email address")
			}
			return nil
		})),
	)
}
