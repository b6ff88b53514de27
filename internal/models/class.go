package models

import "time"

// SchoolClass represents one class of the school, e.g. "Class 5A".
type SchoolClass struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	ImagePath      *string   `db:"image_path" json:"image_path,omitempty"`
	AgeGroup       string    `db:"age_group" json:"age_group"`
	Capacity       int       `db:"capacity" json:"capacity"`
	ClassTeacherID *string   `db:"class_teacher_id" json:"class_teacher_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolClassDetail extends SchoolClass with the class-teacher's name.
type SchoolClassDetail struct {
	SchoolClass
	ClassTeacherName *string `db:"class_teacher_name" json:"class_teacher_name,omitempty"`
}

// SchoolClassFilter defines filter criteria for listing classes.
type SchoolClassFilter struct {
	Search    string
	AgeGroup  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
