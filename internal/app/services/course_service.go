package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// Course constraint messages
const (
	MsgCourseCodeExists = "Course with this Code already exists."
	minCredits          = 1
	maxCredits          = 6
)

// CourseService defines the interface for course operations
type CourseService interface {
	ListCourses(ctx context.Context) ([]*models.Course, error)
	CreateCourse(ctx context.Context, form *dto.CourseForm) (*models.Course, error)
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	courseRepo repositories.ICourseRepository
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo repositories.ICourseRepository, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// ListCourses returns every course ordered by name
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// validateCourseForm checks the form and returns the course it describes
func (s *courseServiceImpl) validateCourseForm(ctx context.Context, form *dto.CourseForm) (*models.Course, apperrors.FieldErrors, error) {
	form.Normalize()
	errs := validation.Struct(form)

	credits := models.DefaultCredits
	if form.Credits != "" {
		n, msg := validation.ParseWholeNumber(form.Credits, minCredits, maxCredits)
		if msg != "" {
			errs.Add("credits", msg)
		}
		credits = n
	}

	if form.Code != "" && !errs.Has("code") {
		exists, err := s.courseRepo.CodeExists(ctx, form.Code)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			errs.Add("code", MsgCourseCodeExists)
		}
	}

	return &models.Course{
		Name:    form.Name,
		Code:    form.Code,
		Credits: credits,
	}, errs, nil
}

// CreateCourse validates the form and stores the course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, form *dto.CourseForm) (*models.Course, error) {
	course, errs, err := s.validateCourseForm(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("error validating course: %w", err)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, apperrors.ErrCourseCodeAlreadyExists) {
			errs.Add("code", MsgCourseCodeExists)
			return nil, errs
		}
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	s.logger.Info().Int64("courseId", course.ID).Str("code", course.Code).Msg("Course created")
	return course, nil
}
