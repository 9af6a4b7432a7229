package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// MsgCourseAdded is flashed after a course is created
const MsgCourseAdded = "Course added successfully!"

// CourseController handles course pages
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// List shows every course ordered by name
func (c *CourseController) List(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.Render(ctx, http.StatusOK, "course_list.html", gin.H{
		"Title":   "Courses",
		"Courses": courses,
	})
}

// CreateForm shows the empty course form
func (c *CourseController) CreateForm(ctx *gin.Context) {
	c.renderForm(ctx, dto.NewCourseForm(), apperrors.FieldErrors{})
}

// Create validates and stores a new course
func (c *CourseController) Create(ctx *gin.Context) {
	form := &dto.CourseForm{}
	if err := bindForm(ctx, form); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	if _, err := c.courseService.CreateCourse(ctx.Request.Context(), form); err != nil {
		if errs, ok := formErrors(err); ok {
			c.renderForm(ctx, form, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, MsgCourseAdded)
	ctx.Redirect(http.StatusFound, "/courses/")
}

func (c *CourseController) renderForm(ctx *gin.Context, form *dto.CourseForm, errs apperrors.FieldErrors) {
	middleware.Render(ctx, http.StatusOK, "course_form.html", gin.H{
		"Title":  "Add Course",
		"Form":   form,
		"Errors": errs,
	})
}
