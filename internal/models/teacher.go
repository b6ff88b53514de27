package models

import "time"

// Teacher represents an instructor record. The linked user account is
// provisioned once after the first create, never on subsequent saves.
type Teacher struct {
	ID           string    `db:"id" json:"id"`
	UserID       *string   `db:"user_id" json:"user_id,omitempty"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	Mobile       string    `db:"mobile" json:"mobile"`
	ProfileImage *string   `db:"profile_image" json:"profile_image,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherDetail extends Teacher with the subjects they are expert in.
type TeacherDetail struct {
	Teacher
	ExpertSubjects []Subject `json:"expert_subjects"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	SubjectID string
	ClassID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
