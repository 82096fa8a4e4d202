package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalvah/planease/internal/expand"
	"github.com/dalvah/planease/internal/models"
	"github.com/dalvah/planease/internal/planner"
)

// ItemListResponse wraps a filtered item listing.
type ItemListResponse struct {
	Items []models.Item `json:"items"`
	Total int           `json:"total"`
}

// UpcomingEvent is an event annotated with its day offset and display badge.
type UpcomingEvent struct {
	planner.UpcomingItem
	Badge planner.Badge `json:"badge"`
}

// CurrentEventResponse reports the event in progress, if any.
type CurrentEventResponse struct {
	Event            *models.Item `json:"event"`
	CountdownSeconds int          `json:"countdown_seconds"`
}

// DashboardResponse is the home-screen aggregate.
type DashboardResponse struct {
	Greeting         string         `json:"greeting"`
	Date             string         `json:"date"`
	CurrentEvent     *models.Item   `json:"current_event"`
	CountdownSeconds int            `json:"countdown_seconds"`
	NextEvent        *UpcomingEvent `json:"next_event"`
	TodayCount       int            `json:"today_count"`
	TaskCount        int            `json:"task_count"`
}

// SnoozeRequest is the body for snoozing a firing alarm.
type SnoozeRequest struct {
	Minutes int `json:"minutes"`
}

// ImportResponse reports how many records an import actually added.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// BulkCreateRequest describes a semester expansion: a shared item template
// plus two alternating weekly mode maps keyed by weekday name.
type BulkCreateRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	Reminder      string            `json:"reminder"`
	StartTime     string            `json:"start_time"`
	EndTime       string            `json:"end_time"`
	SemesterStart string            `json:"semester_start"`
	SemesterEnd   string            `json:"semester_end"`
	WeekA         map[string]string `json:"week_a"`
	WeekB         map[string]string `json:"week_b"`
	Address       string            `json:"address"`
	OnlineLink    string            `json:"online_link"`
}

// toConfig resolves the request's string fields into an expansion config.
func (r BulkCreateRequest) toConfig(maxEvents int) (expand.Config, error) {
	var cfg expand.Config
	var err error
	if cfg.SemesterStart, err = models.ParseDate(r.SemesterStart); err != nil {
		return cfg, err
	}
	if cfg.SemesterEnd, err = models.ParseDate(r.SemesterEnd); err != nil {
		return cfg, err
	}
	if cfg.WeekA, err = parseTemplate(r.WeekA); err != nil {
		return cfg, err
	}
	if cfg.WeekB, err = parseTemplate(r.WeekB); err != nil {
		return cfg, err
	}
	base := models.Item{
		Kind:        models.KindEvent,
		Title:       r.Title,
		Description: r.Description,
		Category:    models.Category(r.Category),
		Reminder:    models.Reminder(r.Reminder),
		Repeat:      "weekly",
	}
	if base.StartTime, err = models.ParseTimeOfDay(r.StartTime); err != nil {
		return cfg, err
	}
	if base.EndTime, err = models.ParseTimeOfDay(r.EndTime); err != nil {
		return cfg, err
	}
	cfg.Base = base
	cfg.Address = r.Address
	cfg.OnlineLink = r.OnlineLink
	cfg.MaxEvents = maxEvents
	return cfg, nil
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
}

func parseTemplate(m map[string]string) (expand.Template, error) {
	if len(m) == 0 {
		return nil, nil
	}
	t := make(expand.Template, len(m))
	for name, mode := range m {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		t[wd] = models.Mode(mode)
	}
	return t, nil
}
