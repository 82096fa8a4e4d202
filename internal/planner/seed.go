package planner

import (
	"time"

	"github.com/dalvah/planease/internal/models"
)

func date(y, m, d int) models.Date {
	return models.Date{Year: y, Month: time.Month(m), Day: d}
}

// Seed populates the store with the demo dataset used by fresh installs.
func Seed(s *Store) {
	items := []models.Item{
		{
			ID: 1, Kind: models.KindEvent, Category: models.CategorySchool,
			Title: "IT 321", Description: "Human-Computer Interaction",
			Location: "Online", Mode: models.ModeOnline,
			StartDate: date(2025, 12, 6), EndDate: date(2025, 12, 6),
			StartTime: models.NewTimeOfDay(10, 0), EndTime: models.NewTimeOfDay(13, 30),
			Priority: models.PriorityMedium, Reminder: models.Reminder10Min,
		},
		{
			ID: 2, Kind: models.KindEvent, Category: models.CategorySchool,
			Title: "CS 311", Description: "Automata Theory and Formal Languages",
			Location: "Online", Mode: models.ModeOnline,
			StartDate: date(2025, 12, 12), EndDate: date(2025, 12, 12),
			StartTime: models.NewTimeOfDay(15, 0), EndTime: models.NewTimeOfDay(23, 30),
			Priority: models.PriorityMedium, Reminder: models.Reminder30Min,
		},
		{
			ID: 3, Kind: models.KindEvent, Category: models.CategoryWork,
			Title: "Team Meeting", Description: "Weekly sync meeting",
			Location: "Office", Mode: models.ModeF2F,
			StartDate: date(2025, 12, 8), EndDate: date(2025, 12, 8),
			StartTime: models.NewTimeOfDay(10, 0), EndTime: models.NewTimeOfDay(11, 0),
			Priority: models.PriorityHigh, Reminder: models.Reminder30Min,
		},
		{
			ID: 4, Kind: models.KindTask, Category: models.CategorySchool,
			Title: "Submit IT 321 report", Description: "Submit final report for HCI",
			Location: "Online", Mode: models.ModeOnline,
			StartDate: date(2025, 12, 5), DueDate: date(2025, 12, 12),
			StartTime: models.NewTimeOfDay(23, 59),
			Priority:  models.PriorityHigh, Reminder: models.Reminder1Day,
		},
		{
			ID: 5, Kind: models.KindTask, Category: models.CategoryPersonal,
			Title: "Buy groceries", Description: "Groceries: milk, eggs, bread",
			Location: "Grocery Store", Mode: models.ModeF2F,
			StartDate: date(2025, 12, 7), DueDate: date(2025, 12, 7),
			StartTime: models.NewTimeOfDay(10, 0),
			Priority:  models.PriorityLow, Completed: true,
		},
	}
	s.mu.Lock()
	s.items = items
	s.alarms = []models.Alarm{
		{ID: 1, Time: models.NewTimeOfDay(8, 0), Label: "Morning Alarm", Enabled: true},
		{ID: 2, Time: models.NewTimeOfDay(14, 0), Label: "Afternoon Reminder", Enabled: false},
	}
	s.conflicts = []models.Conflict{
		{Title: "Schedule Conflict Detected", Description: "Personal appointment overlaps with IT 321 on Dec 6"},
	}
	s.user = models.User{
		FirstName: "Damian", LastName: "Alvah", Email: "dalvah@gmail.com",
		AccountCreated: date(2025, 10, 1),
	}
	s.mu.Unlock()
}
