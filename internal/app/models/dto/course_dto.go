package dto

import "strings"

// CourseForm is the payload of the course create form
type CourseForm struct {
	Name    string `form:"name" validate:"required,max=100"`
	Code    string `form:"code" validate:"required,max=10"`
	Credits string `form:"credits"`
}

// Normalize trims surrounding whitespace from every submitted value
func (f *CourseForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Code = strings.TrimSpace(f.Code)
	f.Credits = strings.TrimSpace(f.Credits)
}

// NewCourseForm returns a blank form with the default credits filled in
func NewCourseForm() *CourseForm {
	return &CourseForm{Credits: "3"}
}
