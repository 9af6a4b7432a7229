package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// MsgGradeAdded is flashed after a grade is recorded
const MsgGradeAdded = "Grade added successfully!"

// GradeController handles grade pages
type GradeController struct {
	gradeService   services.GradeService
	studentService services.StudentService
	courseService  services.CourseService
}

// NewGradeController creates a new GradeController
func NewGradeController(
	gradeService services.GradeService,
	studentService services.StudentService,
	courseService services.CourseService,
) *GradeController {
	return &GradeController{
		gradeService:   gradeService,
		studentService: studentService,
		courseService:  courseService,
	}
}

// CreateForm shows the empty grade form
func (c *GradeController) CreateForm(ctx *gin.Context) {
	c.renderForm(ctx, &dto.GradeForm{}, apperrors.FieldErrors{})
}

// Create validates and records a grade
func (c *GradeController) Create(ctx *gin.Context) {
	form := &dto.GradeForm{}
	if err := bindForm(ctx, form); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	if _, err := c.gradeService.CreateGrade(ctx.Request.Context(), form); err != nil {
		if errs, ok := formErrors(err); ok {
			c.renderForm(ctx, form, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, MsgGradeAdded)
	ctx.Redirect(http.StatusFound, "/students/")
}

func (c *GradeController) renderForm(ctx *gin.Context, form *dto.GradeForm, errs apperrors.FieldErrors) {
	students, err := c.studentService.AllStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	courses, err := c.courseService.ListCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.Render(ctx, http.StatusOK, "grade_form.html", gin.H{
		"Title":    "Add Grade",
		"Form":     form,
		"Errors":   errs,
		"Students": students,
		"Courses":  courses,
		"Letters":  models.Letters,
	})
}
