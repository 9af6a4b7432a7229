package models

import (
	"strconv"
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID        int64     `json:"id" db:"id"`
	StudentID string    `json:"studentId" db:"student_id"` // business identifier, e.g. STU001
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Year      Year      `json:"year" db:"year"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Enrollments, populated on single-record reads
	CourseIDs []int64   `json:"courseIds,omitempty"`
	Courses   []*Course `json:"courses,omitempty"`
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// String renders the student as "STU001 - Ana Lee"
func (s *Student) String() string {
	return s.StudentID + " - " + s.FullName()
}

// FieldValue returns the display value of a named column
func (s *Student) FieldValue(field string) string {
	switch field {
	case "id":
		return strconv.FormatInt(s.ID, 10)
	case "student_id":
		return s.StudentID
	case "first_name":
		return s.FirstName
	case "last_name":
		return s.LastName
	case "email":
		return s.Email
	case "year":
		return string(s.Year)
	case "created_at":
		return s.CreatedAt.Format("2006-01-02")
	case "updated_at":
		return s.UpdatedAt.Format("2006-01-02")
	default:
		return ""
	}
}
