// Package importer parses user-supplied JSON or CSV schedules and
// normalizes them into planner items at the boundary.
package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dalvah/planease/internal/models"
	"github.com/dalvah/planease/internal/planner"
)

// Format identifies the import file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DetectFormat guesses the format from a file name; defaults to JSON.
func DetectFormat(filename string) Format {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// Record is the external record schema: loosely typed, camelCase fields,
// times in either 24-hour or 12-hour form. It is converted to the canonical
// Item representation exactly once, here.
type Record struct {
	Title     string   `json:"title"`
	Kind      string   `json:"kind"`
	FullTitle string   `json:"fullTitle"`
	Category  string   `json:"category"`
	Type      string   `json:"type"`
	Priority  string   `json:"priority"`
	Reminder  string   `json:"reminder"`
	Repeat    string   `json:"repeat"`
	StartDate string   `json:"startDate"`
	StartTime string   `json:"startTime"`
	EndDate   string   `json:"endDate"`
	EndTime   string   `json:"endTime"`
	DueDate   string   `json:"dueDate"`
	Mode      string   `json:"mode"`
	Location  string   `json:"location"`
	Completed flexBool `json:"completed"`
}

// flexBool accepts JSON booleans as well as the string forms CSV delivers.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = parseBool(s)
	return nil
}

func parseBool(s string) flexBool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// ParseJSON decodes an array of records.
func ParseJSON(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("importer: parse json: %w", err)
	}
	return records, nil
}

// ParseCSV decodes the original CSV dialect: first line is a comma-split,
// trimmed header row; subsequent lines map positionally to the headers.
// Quoted-comma escaping is not supported.
func ParseCSV(text string) ([]Record, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil, nil
	}
	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		var r Record
		for i, h := range headers {
			v := ""
			if i < len(values) {
				v = strings.TrimSpace(values[i])
			}
			setField(&r, h, v)
		}
		records = append(records, r)
	}
	return records, nil
}

func setField(r *Record, header, value string) {
	switch header {
	case "title":
		r.Title = value
	case "kind":
		r.Kind = value
	case "fullTitle":
		r.FullTitle = value
	case "category":
		r.Category = value
	case "type":
		r.Type = value
	case "priority":
		r.Priority = value
	case "reminder":
		r.Reminder = value
	case "repeat":
		r.Repeat = value
	case "startDate":
		r.StartDate = value
	case "startTime":
		r.StartTime = value
	case "endDate":
		r.EndDate = value
	case "endTime":
		r.EndTime = value
	case "dueDate":
		r.DueDate = value
	case "mode":
		r.Mode = value
	case "location":
		r.Location = value
	case "completed":
		r.Completed = parseBool(value)
	}
}

// Normalize converts a record to an item, applying schema defaults. It
// returns false when the record lacks a title and must be skipped.
// Unparsable dates and times are treated as unset rather than errors.
func Normalize(r Record) (models.Item, bool) {
	if strings.TrimSpace(r.Title) == "" {
		return models.Item{}, false
	}
	item := models.Item{
		Kind:        models.Kind(defaultStr(r.Kind, string(models.KindEvent))),
		Title:       strings.TrimSpace(r.Title),
		Description: r.FullTitle,
		Category:    models.Category(defaultStr(r.Category, defaultStr(r.Type, string(models.CategorySchool)))),
		Priority:    models.Priority(defaultStr(r.Priority, string(models.PriorityMedium))),
		Reminder:    models.Reminder(defaultStr(r.Reminder, string(models.ReminderNone))),
		Repeat:      defaultStr(r.Repeat, "none"),
		Mode:        models.Mode(defaultStr(r.Mode, string(models.ModeOnline))),
		Location:    r.Location,
		Completed:   bool(r.Completed),
	}
	item.StartDate, _ = models.ParseDate(r.StartDate)
	item.EndDate, _ = models.ParseDate(r.EndDate)
	item.DueDate, _ = models.ParseDate(r.DueDate)
	item.StartTime, _ = models.ParseTimeOfDay(r.StartTime)
	item.EndTime, _ = models.ParseTimeOfDay(r.EndTime)
	return item, true
}

func defaultStr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// Import parses the payload in the given format and adds every normalized
// record to the store. Records without a title are skipped silently; the
// returned count is the number actually added. A parse error imports
// nothing.
func Import(store *planner.Store, data []byte, format Format) (int, error) {
	var records []Record
	var err error
	switch format {
	case FormatCSV:
		records, err = ParseCSV(string(data))
	default:
		records, err = ParseJSON(data)
	}
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, r := range records {
		item, ok := Normalize(r)
		if !ok {
			continue
		}
		if _, err := store.AddItem(item); err != nil {
			continue
		}
		imported++
	}
	return imported, nil
}
