package models

import "time"

// Homework represents an assignment handed out for a subject. At most one
// homework may exist per subject and assigned date.
type Homework struct {
	ID           string    `db:"id" json:"id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	Description  string    `db:"description" json:"description"`
	AssignedDate time.Time `db:"assigned_date" json:"assigned_date"`
	DueDate      time.Time `db:"due_date" json:"due_date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// HomeworkDetail extends Homework with subject/teacher names for listings.
type HomeworkDetail struct {
	Homework
	SubjectName string `db:"subject_name" json:"subject_name"`
	ClassID     string `db:"class_id" json:"class_id"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// HomeworkFilter scopes homework listings.
type HomeworkFilter struct {
	SubjectID    string
	TeacherID    string
	ClassID      string
	AssignedFrom *time.Time
	AssignedTo   *time.Time
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
