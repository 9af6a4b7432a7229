package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// Flash messages shown after student writes
const (
	MsgStudentAdded   = "Student added successfully!"
	MsgStudentUpdated = "Student updated successfully!"
	MsgStudentDeleted = "Student deleted successfully!"
)

// StudentController handles student pages
type StudentController struct {
	studentService services.StudentService
	courseService  services.CourseService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, courseService services.CourseService) *StudentController {
	return &StudentController{
		studentService: studentService,
		courseService:  courseService,
	}
}

// List shows one page of students, optionally narrowed by ?search=
func (c *StudentController) List(ctx *gin.Context) {
	page, err := c.studentService.ListStudents(ctx.Request.Context(), ctx.Query("search"), ctx.Query("page"))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.Render(ctx, http.StatusOK, "student_list.html", gin.H{
		"Title": "Students",
		"Page":  page,
	})
}

// Detail shows a student with its courses and grades
func (c *StudentController) Detail(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	detail, err := c.studentService.GetStudentDetail(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.Render(ctx, http.StatusOK, "student_detail.html", gin.H{
		"Title":  detail.Student.FullName(),
		"Detail": detail,
	})
}

// CreateForm shows the empty student form
func (c *StudentController) CreateForm(ctx *gin.Context) {
	c.renderForm(ctx, &dto.StudentForm{}, nil, apperrors.FieldErrors{})
}

// Create validates and stores a new student
func (c *StudentController) Create(ctx *gin.Context) {
	form := &dto.StudentForm{}
	if err := bindForm(ctx, form); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	if _, err := c.studentService.CreateStudent(ctx.Request.Context(), form); err != nil {
		if errs, ok := formErrors(err); ok {
			c.renderForm(ctx, form, nil, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, MsgStudentAdded)
	ctx.Redirect(http.StatusFound, "/students/")
}

// EditForm shows the student form pre-filled with the stored values
func (c *StudentController) EditForm(ctx *gin.Context) {
	student, ok := c.loadStudent(ctx)
	if !ok {
		return
	}
	c.renderForm(ctx, dto.NewStudentForm(student), student, apperrors.FieldErrors{})
}

// Update validates and stores the edited student
func (c *StudentController) Update(ctx *gin.Context) {
	student, ok := c.loadStudent(ctx)
	if !ok {
		return
	}

	form := &dto.StudentForm{}
	if err := bindForm(ctx, form); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	if _, err := c.studentService.UpdateStudent(ctx.Request.Context(), student.ID, form); err != nil {
		if errs, ok := formErrors(err); ok {
			c.renderForm(ctx, form, student, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, MsgStudentUpdated)
	ctx.Redirect(http.StatusFound, "/students/"+strconv.FormatInt(student.ID, 10)+"/")
}

// DeleteConfirm asks before deleting a student
func (c *StudentController) DeleteConfirm(ctx *gin.Context) {
	student, ok := c.loadStudent(ctx)
	if !ok {
		return
	}

	middleware.Render(ctx, http.StatusOK, "student_confirm_delete.html", gin.H{
		"Title":   "Delete " + student.FullName(),
		"Student": student,
	})
}

// Delete removes the student together with its grades and enrollments
func (c *StudentController) Delete(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, MsgStudentDeleted)
	ctx.Redirect(http.StatusFound, "/students/")
}

func (c *StudentController) loadStudent(ctx *gin.Context) (*models.Student, bool) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, err)
		return nil, false
	}

	student, err := c.studentService.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, err)
		return nil, false
	}
	return student, true
}

func (c *StudentController) renderForm(ctx *gin.Context, form *dto.StudentForm, student *models.Student, errs apperrors.FieldErrors) {
	courses, err := c.courseService.ListCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	title := "Add Student"
	data := gin.H{
		"Form":    form,
		"Errors":  errs,
		"Years":   models.Years,
		"Courses": courses,
	}
	if student != nil {
		title = "Edit " + student.FullName()
		data["Student"] = student
	}
	data["Title"] = title

	middleware.Render(ctx, http.StatusOK, "student_form.html", data)
}
