package models

import "time"

// Teacher represents an instructor record together with the grade driving its hour cap.
type Teacher struct {
	ID         string    `db:"id" json:"id" csv:"id"`
	Email      string    `db:"email" json:"email" csv:"email"`
	FullName   string    `db:"full_name" json:"full_name" csv:"full_name"`
	Grade      string    `db:"grade" json:"grade" csv:"grade"`
	Department *string   `db:"department" json:"department,omitempty" csv:"-"`
	Active     bool      `db:"active" json:"active" csv:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at" csv:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at" csv:"-"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Grade     string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
