package dto

import (
	"strconv"
	"strings"
)

// GradeForm is the payload of the grade create form
type GradeForm struct {
	Student string `form:"student" validate:"required"`
	Course  string `form:"course" validate:"required"`
	Grade   string `form:"grade" validate:"required,letter"`
	Marks   string `form:"marks" validate:"required"`
}

// Normalize trims surrounding whitespace from every submitted value
func (f *GradeForm) Normalize() {
	f.Student = strings.TrimSpace(f.Student)
	f.Course = strings.TrimSpace(f.Course)
	f.Grade = strings.TrimSpace(f.Grade)
	f.Marks = strings.TrimSpace(f.Marks)
}

// IsStudent reports whether the student option should be selected
func (f *GradeForm) IsStudent(id int64) bool {
	return f.Student == strconv.FormatInt(id, 10)
}

// IsCourse reports whether the course option should be selected
func (f *GradeForm) IsCourse(id int64) bool {
	return f.Course == strconv.FormatInt(id, 10)
}
