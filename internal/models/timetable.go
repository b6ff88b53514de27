package models

import "time"

// Weekday names used by timetable rows, matching the day CHECK constraint
// in the schema.
const (
	DayMonday    = "Monday"
	DayTuesday   = "Tuesday"
	DayWednesday = "Wednesday"
	DayThursday  = "Thursday"
	DayFriday    = "Friday"
	DaySaturday  = "Saturday"
)

// SchoolWeek lists the six teaching days in order.
var SchoolWeek = []string{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday}

// ValidDay reports whether name is one of the six teaching days.
func ValidDay(name string) bool {
	for _, day := range SchoolWeek {
		if day == name {
			return true
		}
	}
	return false
}

// Timetable represents one scheduled period for a class. The
// (class, day, start_time) triple is unique; times are "HH:MM".
type Timetable struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Day       string    `db:"day" json:"day"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TimetableDetail extends Timetable with display names.
type TimetableDetail struct {
	Timetable
	SubjectName string `db:"subject_name" json:"subject_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	ClassName   string `db:"class_name" json:"class_name"`
}

// TimetableFilter scopes timetable listings.
type TimetableFilter struct {
	ClassID   string
	TeacherID string
	Day       string
}
