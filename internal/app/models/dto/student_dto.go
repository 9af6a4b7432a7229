package dto

import (
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
)

// StudentForm is the payload of the student create and edit forms
type StudentForm struct {
	StudentID string   `form:"student_id" validate:"required,max=20"`
	FirstName string   `form:"first_name" validate:"required,max=50"`
	LastName  string   `form:"last_name" validate:"required,max=50"`
	Email     string   `form:"email" validate:"required,email,max=254"`
	Year      string   `form:"year" validate:"required,year"`
	Courses   []string `form:"courses"`
}

// Normalize trims surrounding whitespace from every submitted value
func (f *StudentForm) Normalize() {
	f.StudentID = strings.TrimSpace(f.StudentID)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Year = strings.TrimSpace(f.Year)

	courses := f.Courses[:0]
	for _, c := range f.Courses {
		if c = strings.TrimSpace(c); c != "" {
			courses = append(courses, c)
		}
	}
	f.Courses = courses
}

// HasCourse reports whether the course checkbox should be ticked
func (f *StudentForm) HasCourse(id int64) bool {
	want := strconv.FormatInt(id, 10)
	for _, c := range f.Courses {
		if c == want {
			return true
		}
	}
	return false
}

// NewStudentForm pre-fills the form from an existing student
func NewStudentForm(s *models.Student) *StudentForm {
	form := &StudentForm{
		StudentID: s.StudentID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Year:      string(s.Year),
	}
	for _, id := range s.CourseIDs {
		form.Courses = append(form.Courses, strconv.FormatInt(id, 10))
	}
	return form
}

// StudentPage is one page of the student list
type StudentPage struct {
	Students   []*models.Student
	Pagination PaginationInfo
	Search     string
}

// StudentDetail is a student with every grade referencing it
type StudentDetail struct {
	Student *models.Student
	Grades  []*models.Grade
}
