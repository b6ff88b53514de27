package models

import "time"

// StudentDiary is a dated note from a teacher to a student.
type StudentDiary struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	Date      time.Time `db:"date" json:"date"`
	Title     string    `db:"title" json:"title"`
	Entry     string    `db:"entry" json:"entry"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDiaryDetail extends a diary entry with display names.
type StudentDiaryDetail struct {
	StudentDiary
	StudentName string  `db:"student_name" json:"student_name"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// StudentDiaryFilter scopes diary listings.
type StudentDiaryFilter struct {
	StudentID string
	TeacherID string
	ClassID   string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}
