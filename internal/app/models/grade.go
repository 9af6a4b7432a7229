package models

import "strconv"

// Grade links one student to one course with the result obtained.
// A (student, course) pair has at most one grade.
type Grade struct {
	ID        int64  `json:"id" db:"id"`
	StudentID int64  `json:"studentId" db:"student_id"`
	CourseID  int64  `json:"courseId" db:"course_id"`
	Letter    Letter `json:"grade" db:"grade"`
	Marks     int    `json:"marks" db:"marks"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
	Course  *Course  `json:"course,omitempty"`
}

// FieldValue returns the display value of a named column
func (g *Grade) FieldValue(field string) string {
	switch field {
	case "id":
		return strconv.FormatInt(g.ID, 10)
	case "student":
		if g.Student != nil {
			return g.Student.String()
		}
		return strconv.FormatInt(g.StudentID, 10)
	case "course":
		if g.Course != nil {
			return g.Course.String()
		}
		return strconv.FormatInt(g.CourseID, 10)
	case "grade":
		return string(g.Letter)
	case "marks":
		return strconv.Itoa(g.Marks)
	default:
		return ""
	}
}
