package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Trip is one bike-share ride. Month, DayName, DayOfWeek and Hour are
// derived from StartTime at load time.
type Trip struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     float64 // seconds
	StartStation string
	EndStation   string
	UserType     string
	Gender       sql.NullString
	BirthYear    sql.NullInt64

	Month     time.Month
	DayName   string
	DayOfWeek int // Monday=0 ... Sunday=6
	Hour      int
}

// Derive fills the calendar fields from StartTime.
func (t *Trip) Derive() {
	t.Month = t.StartTime.Month()
	t.DayName = t.StartTime.Weekday().String()
	t.DayOfWeek = (int(t.StartTime.Weekday()) + 6) % 7
	t.Hour = t.StartTime.Hour()
}

// Route is the start and end station joined by an arrow.
func (t Trip) Route() string {
	return t.StartStation + " --> " + t.EndStation
}

// Age returns the rider's age in the given year, if a birth year is known.
func (t Trip) Age(year int) (int, bool) {
	if !t.BirthYear.Valid {
		return 0, false
	}
	return year - int(t.BirthYear.Int64), true
}

// TitleCase normalizes console input before it is matched against a vocabulary.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

type City int

const (
	Chicago City = iota + 1
	NewYorkCity
	Washington
)

var Cities = []City{Chicago, NewYorkCity, Washington}

func (c City) String() string {
	switch c {
	case Chicago:
		return "Chicago"
	case NewYorkCity:
		return "New York City"
	case Washington:
		return "Washington"
	}
	return fmt.Sprintf("City(%d)", int(c))
}

// Slug is the lowercase, underscore-separated city name used for file and
// database keys.
func (c City) Slug() string {
	return strings.ReplaceAll(strings.ToLower(c.String()), " ", "_")
}

func ParseCity(s string) (City, error) {
	name := TitleCase(s)
	for _, c := range Cities {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown city %q", s)
}

// Month is a month filter. AllMonths disables filtering; January through
// June share their time.Month numbers.
type Month int

const (
	AllMonths Month = iota
	January
	February
	March
	April
	May
	June
)

var Months = []Month{AllMonths, January, February, March, April, May, June}

func (m Month) String() string {
	switch m {
	case AllMonths:
		return "All"
	case January, February, March, April, May, June:
		return time.Month(m).String()
	}
	return fmt.Sprintf("Month(%d)", int(m))
}

// Matches reports whether a trip month passes the filter.
func (m Month) Matches(month time.Month) bool {
	return m == AllMonths || time.Month(m) == month
}

func ParseMonth(s string) (Month, error) {
	name := TitleCase(s)
	for _, m := range Months {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", s)
}

// Day is a day-of-week filter. AllDays disables filtering; Sunday through
// Saturday are time.Weekday+1.
type Day int

const (
	AllDays Day = iota
	Sunday
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var Days = []Day{AllDays, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func (d Day) String() string {
	switch d {
	case AllDays:
		return "All"
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return time.Weekday(d - 1).String()
	}
	return fmt.Sprintf("Day(%d)", int(d))
}

// Matches reports whether a trip weekday name passes the filter.
func (d Day) Matches(dayName string) bool {
	return d == AllDays || d.String() == dayName
}

func ParseDay(s string) (Day, error) {
	name := TitleCase(s)
	for _, d := range Days {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// Selection is the filter triple chosen at the start of a session.
type Selection struct {
	City  City
	Month Month
	Day   Day
}

func (s Selection) String() string {
	return fmt.Sprintf("City: %s, Month: %s, Day: %s.", s.City, s.Month, s.Day)
}
