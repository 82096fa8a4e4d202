package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if d.Year != 2026 || d.Month != time.March || d.Day != 10 {
		t.Errorf("parsed = %+v", d)
	}

	zero, err := ParseDate("")
	if err != nil || !zero.IsZero() {
		t.Errorf("empty string should be the zero date, got %+v err %v", zero, err)
	}

	if _, err := ParseDate("10/03/2026"); err == nil {
		t.Error("non-ISO date should fail")
	}
}

func TestDateArithmetic(t *testing.T) {
	d := Date{Year: 2026, Month: time.March, Day: 30}
	if got := d.AddDays(3); got != (Date{Year: 2026, Month: time.April, Day: 2}) {
		t.Errorf("AddDays crossing month = %+v", got)
	}
	if got := DaysBetween(Date{Year: 2026, Month: time.March, Day: 10}, Date{Year: 2026, Month: time.March, Day: 17}); got != 7 {
		t.Errorf("DaysBetween = %d, want 7", got)
	}
	if got := DaysBetween(Date{Year: 2026, Month: time.March, Day: 10}, Date{Year: 2026, Month: time.March, Day: 8}); got != -2 {
		t.Errorf("DaysBetween backwards = %d, want -2", got)
	}
	if wd := (Date{Year: 2026, Month: time.March, Day: 2}).Weekday(); wd != time.Monday {
		t.Errorf("weekday = %v, want Monday", wd)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:30", "09:30"},
		{"14:05", "14:05"},
		{"2:00 PM", "14:00"},
		{"2:00PM", "14:00"},
		{"12:30 am", "00:30"},
		{"12:00 PM", "12:00"},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %q, want %q", tc.in, got.String(), tc.want)
		}
	}

	unset, err := ParseTimeOfDay("")
	if err != nil || !unset.IsZero() {
		t.Errorf("empty string should be unset, got %v err %v", unset, err)
	}
	if _, err := ParseTimeOfDay("25:99"); err == nil {
		t.Error("invalid time should fail")
	}
}

func TestTimeOfDayUnsetVsMidnight(t *testing.T) {
	midnight := NewTimeOfDay(0, 0)
	if midnight.IsZero() {
		t.Error("midnight must not be the unset value")
	}
	var unset TimeOfDay
	if unset.Minutes() != -1 {
		t.Errorf("unset Minutes = %d, want -1", unset.Minutes())
	}
	if midnight.Minutes() != 0 {
		t.Errorf("midnight Minutes = %d, want 0", midnight.Minutes())
	}
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	in := NewTimeOfDay(7, 30)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"07:30"` {
		t.Errorf("marshal = %s", data)
	}
	var out TimeOfDay
	if err := json.Unmarshal([]byte(`"7:30 AM"`), &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("12-hour form should normalize to the same value, got %v", out)
	}
}

func TestMinuteKey(t *testing.T) {
	at := time.Date(2026, 3, 10, 7, 30, 45, 0, time.UTC)
	if got := MinuteKey(at); got != "2026-03-10T07:30" {
		t.Errorf("MinuteKey = %q", got)
	}
	if MinuteKey(at) != MinuteKey(at.Add(10*time.Second)) {
		t.Error("same minute must share a key")
	}
	if MinuteKey(at) == MinuteKey(at.Add(time.Minute)) {
		t.Error("next minute must change the key")
	}
}

func TestItemValidate(t *testing.T) {
	ok := Item{Kind: KindEvent, Title: "x"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid item rejected: %v", err)
	}
	if err := (Item{Kind: KindEvent}).Validate(); err == nil {
		t.Error("missing title should fail")
	}
	if err := (Item{Kind: "meeting", Title: "x"}).Validate(); err == nil {
		t.Error("unknown kind should fail")
	}
	if err := (Item{Kind: KindTask, Title: "x", Priority: "urgent"}).Validate(); err == nil {
		t.Error("unknown priority should fail")
	}
}

func TestUserValidate(t *testing.T) {
	ok := User{FirstName: "Dana", LastName: "Reyes", Email: "dana@example.com"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid user rejected: %v", err)
	}
	bad := ok
	bad.Email = "nope"
	if err := bad.Validate(); err == nil {
		t.Error("email without @ should fail")
	}
}
