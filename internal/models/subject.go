package models

import "time"

// Subject represents an academic subject taught to exactly one class.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ClassID   string    `db:"class_id" json:"class_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectDetail extends Subject with class context.
type SubjectDetail struct {
	Subject
	ClassName string `db:"class_name" json:"class_name"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	ClassID   string
	TeacherID string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// SubjectExpert maps a teacher onto a subject they are qualified to teach.
type SubjectExpert struct {
	SubjectID string `db:"subject_id" json:"subject_id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
}
