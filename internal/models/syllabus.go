package models

import "time"

// Syllabus represents one titled section of a subject's syllabus content.
// The (subject, title) pair is unique.
type Syllabus struct {
	ID        string    `db:"id" json:"id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SyllabusDetail extends Syllabus with subject/teacher names.
type SyllabusDetail struct {
	Syllabus
	SubjectName string `db:"subject_name" json:"subject_name"`
	ClassID     string `db:"class_id" json:"class_id"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// SyllabusFilter scopes syllabus listings.
type SyllabusFilter struct {
	SubjectID string
	TeacherID string
	ClassID   string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
