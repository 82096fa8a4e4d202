// Package expand materializes planner items from a two-week alternating
// weekly template over a semester date range (bulk import).
package expand

import (
	"fmt"
	"time"

	"github.com/dalvah/planease/internal/apperr"
	"github.com/dalvah/planease/internal/models"
)

// DefaultMaxEvents is the hard cap on items produced by one expansion.
const DefaultMaxEvents = 500

// Template assigns a mode to each teaching weekday (Mon–Fri). A weekday
// mapped to ModeNone (or absent) produces no item that week.
type Template map[time.Weekday]models.Mode

// Config describes one semester expansion.
type Config struct {
	// SemesterStart / SemesterEnd bound the iteration, inclusive.
	// SemesterEnd must not precede SemesterStart.
	SemesterStart models.Date
	SemesterEnd   models.Date

	// WeekA applies to even week offsets from SemesterStart, WeekB to odd
	// ones. The alternation is anchored to the semester start date, not to
	// calendar weeks, so it is stable only relative to SemesterStart.
	WeekA Template
	WeekB Template

	// Base supplies the shared fields (title, category, times, ...) copied
	// into every materialized item. Its dates, mode, and location are
	// overwritten per occurrence.
	Base models.Item

	// Address is used as the location for f2f occurrences, OnlineLink for
	// online and hybrid ones.
	Address    string
	OnlineLink string

	// MaxEvents caps the batch; zero means DefaultMaxEvents.
	MaxEvents int
}

// Result reports what an expansion produced.
type Result struct {
	Created    int  `json:"created"`
	CapReached bool `json:"cap_reached"`
}

// Expand walks every calendar day of the semester and materializes one item
// per matching weekday. It stops immediately once the cap is hit, reporting
// partial success rather than an error.
func Expand(cfg Config) ([]models.Item, Result, error) {
	var res Result

	if cfg.SemesterStart.IsZero() || cfg.SemesterEnd.IsZero() {
		return nil, res, fmt.Errorf("%w: semester start and end dates are required", apperr.ErrInvalid)
	}
	if cfg.SemesterEnd.Before(cfg.SemesterStart) {
		return nil, res, fmt.Errorf("%w: semester end precedes start", apperr.ErrInvalid)
	}
	if err := cfg.Base.Validate(); err != nil {
		return nil, res, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	limit := cfg.MaxEvents
	if limit <= 0 {
		limit = DefaultMaxEvents
	}

	var out []models.Item
	for day := cfg.SemesterStart; !cfg.SemesterEnd.Before(day); day = day.AddDays(1) {
		wd := day.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		weekOffset := models.DaysBetween(cfg.SemesterStart, day) / 7
		template := cfg.WeekA
		if weekOffset%2 != 0 {
			template = cfg.WeekB
		}
		mode := template[wd]
		if mode == "" || mode == models.ModeNone {
			continue
		}

		item := cfg.Base
		item.ID = 0
		item.StartDate = day
		item.EndDate = day
		item.Mode = mode
		if mode == models.ModeF2F {
			item.Location = cfg.Address
		} else {
			item.Location = cfg.OnlineLink
		}
		out = append(out, item)
		res.Created++
		if res.Created >= limit {
			res.CapReached = true
			break
		}
	}
	return out, res, nil
}
