package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dalvah/planease/internal/models"
)

// The query layer is pure: every function takes an item snapshot and an
// explicit "now" and returns derived views without mutating anything.

// DaysUntil returns the difference between date and now's calendar day in
// whole days; negative means the date is in the past.
func DaysUntil(date models.Date, now time.Time) int {
	return models.DaysBetween(models.DateOf(now), date)
}

// TodayEvents returns all events whose start date is now's calendar day.
func TodayEvents(items []models.Item, now time.Time) []models.Item {
	today := models.DateOf(now)
	var out []models.Item
	for _, it := range items {
		if it.Kind == models.KindEvent && it.StartDate == today {
			out = append(out, it)
		}
	}
	return out
}

// UpcomingTasks returns incomplete tasks due within [today, today+days].
// Overdue tasks (negative day diff) are excluded.
func UpcomingTasks(items []models.Item, now time.Time, days int) []models.Item {
	var out []models.Item
	for _, it := range items {
		if it.Kind != models.KindTask || it.Completed {
			continue
		}
		diff := DaysUntil(it.Due(), now)
		if diff >= 0 && diff <= days {
			out = append(out, it)
		}
	}
	return out
}

// CurrentEvent returns the first event in list order whose start date is
// today and whose [start, end] window contains now. When several events
// overlap the current instant only the first match is returned; this keeps
// the original first-wins behavior and is a known limitation.
func CurrentEvent(items []models.Item, now time.Time) (models.Item, bool) {
	today := models.DateOf(now)
	for _, it := range items {
		if it.Kind != models.KindEvent || it.StartDate != today {
			continue
		}
		if it.StartTime.IsZero() || it.EndTime.IsZero() {
			continue
		}
		start := it.StartTime.On(now)
		end := it.EndTime.On(now)
		if !now.Before(start) && !now.After(end) {
			return it, true
		}
	}
	return models.Item{}, false
}

// UpcomingItem is an item annotated with its day offset from today.
type UpcomingItem struct {
	models.Item
	DaysUntil int `json:"days_until"`
}

// UpcomingEvents returns events starting within [today, today+days],
// sorted ascending by start date.
func UpcomingEvents(items []models.Item, now time.Time, days int) []UpcomingItem {
	var out []UpcomingItem
	for _, it := range items {
		if it.Kind != models.KindEvent {
			continue
		}
		diff := DaysUntil(it.StartDate, now)
		if diff >= 0 && diff <= days {
			out = append(out, UpcomingItem{Item: it, DaysUntil: diff})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

// Badge is a display label classifying how soon an item is.
type Badge struct {
	Text  string `json:"text"`
	Class string `json:"class"`
}

// BadgeFor classifies the item's start date relative to now. The
// event-specific "ends soon" check takes precedence over the generic
// day-offset checks.
func BadgeFor(item models.Item, now time.Time) Badge {
	diff := DaysUntil(item.StartDate, now)
	switch {
	case item.Kind == models.KindEvent && diff <= 0 && diff >= -1:
		return Badge{Text: "Ends soon", Class: "ending-soon"}
	case diff == 0:
		return Badge{Text: "Today", Class: "ending-soon"}
	case diff == 1:
		return Badge{Text: "Tomorrow", Class: "tomorrow"}
	case diff > 1 && diff <= 7:
		return Badge{Text: item.StartDate.Weekday().String(), Class: "dayname"}
	default:
		return Badge{Text: formatBadgeDate(item.StartDate), Class: "dayname"}
	}
}

func formatBadgeDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// FilterScope selects items by completion state.
type FilterScope string

const (
	ScopeAll       FilterScope = "all"
	ScopeCurrent   FilterScope = "current"
	ScopeMissed    FilterScope = "missed"
	ScopeCompleted FilterScope = "completed"
)

// FilterKind narrows a scope to tasks, events, or both.
type FilterKind string

const (
	FilterBoth   FilterKind = ""
	FilterTasks  FilterKind = "tasks"
	FilterEvents FilterKind = "events"
)

// Filter is a planner view selector, e.g. "missed-tasks" or "all".
type Filter struct {
	Scope FilterScope
	Kind  FilterKind
}

// ParseFilter parses selectors of the form "<scope>" or "<scope>-<kind>".
// The empty string means "all".
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return Filter{Scope: ScopeAll}, nil
	}
	scope, kind := s, ""
	if i := strings.LastIndex(s, "-"); i > 0 {
		scope, kind = s[:i], s[i+1:]
	}
	f := Filter{Scope: FilterScope(scope), Kind: FilterKind(kind)}
	switch f.Scope {
	case ScopeAll, ScopeCurrent, ScopeMissed, ScopeCompleted:
	default:
		return Filter{}, fmt.Errorf("planner: unknown filter scope %q", scope)
	}
	switch f.Kind {
	case FilterBoth, FilterTasks, FilterEvents:
	default:
		return Filter{}, fmt.Errorf("planner: unknown filter kind %q", kind)
	}
	return f, nil
}

// Match reports whether the item belongs to the filtered view as of now.
// "Missed" means incomplete with a start date before today.
func (f Filter) Match(item models.Item, now time.Time) bool {
	switch f.Kind {
	case FilterTasks:
		if item.Kind != models.KindTask {
			return false
		}
	case FilterEvents:
		if item.Kind != models.KindEvent {
			return false
		}
	}
	switch f.Scope {
	case ScopeCurrent:
		return !item.Completed
	case ScopeMissed:
		return !item.Completed && item.StartDate.Before(models.DateOf(now))
	case ScopeCompleted:
		return item.Completed
	default:
		return true
	}
}

// FilterItems applies the filter and returns matching items in list order.
func FilterItems(items []models.Item, f Filter, now time.Time) []models.Item {
	var out []models.Item
	for _, it := range items {
		if f.Match(it, now) {
			out = append(out, it)
		}
	}
	return out
}

// SortItems orders incomplete items before completed ones and, within each
// group, ascending by start date then start time. The sort is stable.
func SortItems(items []models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.StartDate != b.StartDate {
			return a.StartDate.Before(b.StartDate)
		}
		return a.StartTime.Minutes() < b.StartTime.Minutes()
	})
}

// Greeting returns the salutation for now's hour.
func Greeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good Morning"
	case hour < 18:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}

// CountdownTo returns the remaining duration until the given end time today.
// An end time earlier than now is treated as crossing midnight and rolls to
// the next day; this applies to countdown display only, never to stored dates.
func CountdownTo(end models.TimeOfDay, now time.Time) time.Duration {
	if end.IsZero() {
		return 0
	}
	at := end.On(now)
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at.Sub(now)
}
