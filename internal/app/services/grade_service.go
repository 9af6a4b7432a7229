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

// MsgGradeExists is reported when the student already has a grade for the course
const MsgGradeExists = "Grade with this Student and Course already exists."

// GradeService defines the interface for grade operations
type GradeService interface {
	CreateGrade(ctx context.Context, form *dto.GradeForm) (*models.Grade, error)
}

// gradeServiceImpl implements GradeService
type gradeServiceImpl struct {
	gradeRepo   repositories.IGradeRepository
	studentRepo repositories.IStudentRepository
	courseRepo  repositories.ICourseRepository
	logger      zerolog.Logger
}

// NewGradeService creates a new GradeService
func NewGradeService(
	gradeRepo repositories.IGradeRepository,
	studentRepo repositories.IStudentRepository,
	courseRepo repositories.ICourseRepository,
	logger zerolog.Logger,
) GradeService {
	return &gradeServiceImpl{
		gradeRepo:   gradeRepo,
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
		logger:      logger,
	}
}

// validateGradeForm checks the form and returns the grade it describes
func (s *gradeServiceImpl) validateGradeForm(ctx context.Context, form *dto.GradeForm) (*models.Grade, apperrors.FieldErrors, error) {
	form.Normalize()
	errs := validation.Struct(form)
	grade := &models.Grade{Letter: models.Letter(form.Grade)}

	if !errs.Has("student") {
		id, ok := validation.ParseChoiceID(form.Student)
		if ok {
			_, err := s.studentRepo.GetByID(ctx, id)
			switch {
			case errors.Is(err, apperrors.ErrStudentNotFound):
				ok = false
			case err != nil:
				return nil, nil, err
			}
		}
		if !ok {
			errs.Add("student", validation.MsgInvalidChoice)
		}
		grade.StudentID = id
	}

	if !errs.Has("course") {
		id, ok := validation.ParseChoiceID(form.Course)
		if ok {
			_, err := s.courseRepo.GetByID(ctx, id)
			switch {
			case errors.Is(err, apperrors.ErrCourseNotFound):
				ok = false
			case err != nil:
				return nil, nil, err
			}
		}
		if !ok {
			errs.Add("course", validation.MsgInvalidChoice)
		}
		grade.CourseID = id
	}

	if !errs.Has("marks") {
		marks, msg := validation.ParseWholeNumber(form.Marks, 0, 100)
		if msg != "" {
			errs.Add("marks", msg)
		}
		grade.Marks = marks
	}

	// the pair check only runs once both references are valid
	if !errs.Has("student") && !errs.Has("course") {
		exists, err := s.gradeRepo.Exists(ctx, grade.StudentID, grade.CourseID)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			errs.Add(apperrors.NonFieldErrors, MsgGradeExists)
		}
	}

	return grade, errs, nil
}

// CreateGrade validates the form and stores the grade
func (s *gradeServiceImpl) CreateGrade(ctx context.Context, form *dto.GradeForm) (*models.Grade, error) {
	grade, errs, err := s.validateGradeForm(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("error validating grade: %w", err)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.gradeRepo.Create(ctx, grade); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrGradeAlreadyExists):
			errs.Add(apperrors.NonFieldErrors, MsgGradeExists)
		case errors.Is(err, apperrors.ErrStudentNotFound):
			errs.Add("student", validation.MsgInvalidChoice)
		case errors.Is(err, apperrors.ErrCourseNotFound):
			errs.Add("course", validation.MsgInvalidChoice)
		default:
			return nil, fmt.Errorf("error creating grade: %w", err)
		}
		return nil, errs
	}

	s.logger.Info().
		Int64("gradeId", grade.ID).
		Int64("studentId", grade.StudentID).
		Int64("courseId", grade.CourseID).
		Msg("Grade created")
	return grade, nil
}
