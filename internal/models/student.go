package models

import "time"

// Student represents a learner registered in the institution. The pen number
// doubles as the login username of the provisioned user account.
type Student struct {
	ID              string     `db:"id" json:"id"`
	UserID          *string    `db:"user_id" json:"user_id,omitempty"`
	FullName        string     `db:"full_name" json:"full_name"`
	RollNo          string     `db:"roll_no" json:"roll_no"`
	PenNumber       string     `db:"pen_number" json:"pen_number"`
	Email           string     `db:"email" json:"email"`
	Phone           string     `db:"phone" json:"phone"`
	Gender          *string    `db:"gender" json:"gender,omitempty"`
	DateOfBirth     *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address         *string    `db:"address" json:"address,omitempty"`
	GuardianName    *string    `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianContact *string    `db:"guardian_contact" json:"guardian_contact,omitempty"`
	ImagePath       *string    `db:"image_path" json:"image_path,omitempty"`
	ClassID         string     `db:"class_id" json:"class_id"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Age derives the student's age in whole years, nil when birth date unknown.
func (s *Student) Age(today time.Time) *int {
	if s.DateOfBirth == nil {
		return nil
	}
	dob := *s.DateOfBirth
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return &age
}

// StudentDetail contains student information with class context.
type StudentDetail struct {
	Student
	ClassName string `db:"class_name" json:"class_name"`
	Age       *int   `json:"age,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	ClassID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
