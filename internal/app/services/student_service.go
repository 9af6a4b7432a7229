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
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// Student constraint messages
const (
	MsgStudentIDExists    = "Student with this Student id already exists."
	MsgStudentEmailExists = "Student with this Email already exists."
)

// StudentService defines the interface for student operations
type StudentService interface {
	ListStudents(ctx context.Context, search, page string) (*dto.StudentPage, error)
	AllStudents(ctx context.Context) ([]*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetStudentDetail(ctx context.Context, id int64) (*dto.StudentDetail, error)
	CreateStudent(ctx context.Context, form *dto.StudentForm) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, form *dto.StudentForm) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	studentRepo repositories.IStudentRepository
	courseRepo  repositories.ICourseRepository
	gradeRepo   repositories.IGradeRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo repositories.IStudentRepository,
	courseRepo repositories.ICourseRepository,
	gradeRepo repositories.IGradeRepository,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
		gradeRepo:   gradeRepo,
		logger:      logger,
	}
}

// ListStudents returns one page of students matching search.
// An unusable page value never fails; it resolves to an existing page.
func (s *studentServiceImpl) ListStudents(ctx context.Context, search, page string) (*dto.StudentPage, error) {
	total, err := s.studentRepo.Count(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	pagination := helpers.ResolvePage(page, total, helpers.DefaultPageSize)
	offset, limit := helpers.CalculateOffsetLimit(pagination.CurrentPage, pagination.PageSize)

	students, err := s.studentRepo.List(ctx, repositories.StudentFilter{
		Search: search,
		Offset: offset,
		Limit:  uint64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	return &dto.StudentPage{
		Students:   students,
		Pagination: pagination,
		Search:     search,
	}, nil
}

// AllStudents returns every student ordered by student_id
func (s *studentServiceImpl) AllStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

// GetStudent retrieves a student with its enrolled courses
func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetStudentDetail retrieves a student with every grade referencing it
func (s *studentServiceImpl) GetStudentDetail(ctx context.Context, id int64) (*dto.StudentDetail, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	grades, err := s.gradeRepo.GetByStudentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving grades: %w", err)
	}

	return &dto.StudentDetail{Student: student, Grades: grades}, nil
}

// validateStudentForm checks the form and returns the student it describes.
// excludeID is the record being edited, 0 on create.
func (s *studentServiceImpl) validateStudentForm(ctx context.Context, form *dto.StudentForm, excludeID int64) (*models.Student, apperrors.FieldErrors, error) {
	form.Normalize()
	errs := validation.Struct(form)

	courseIDs, err := s.resolveCourses(ctx, form.Courses, errs)
	if err != nil {
		return nil, nil, err
	}

	if form.StudentID != "" && !errs.Has("student_id") {
		exists, err := s.studentRepo.StudentIDExists(ctx, form.StudentID, excludeID)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			errs.Add("student_id", MsgStudentIDExists)
		}
	}

	if form.Email != "" && !errs.Has("email") {
		exists, err := s.studentRepo.EmailExists(ctx, form.Email, excludeID)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			errs.Add("email", MsgStudentEmailExists)
		}
	}

	return &models.Student{
		ID:        excludeID,
		StudentID: form.StudentID,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Year:      models.Year(form.Year),
		CourseIDs: courseIDs,
	}, errs, nil
}

// resolveCourses turns submitted course ids into existing course ids, reporting unknown values
func (s *studentServiceImpl) resolveCourses(ctx context.Context, raw []string, errs apperrors.FieldErrors) ([]int64, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(raw))
	for _, value := range raw {
		id, ok := validation.ParseChoiceID(value)
		if !ok {
			errs.Add("courses", validation.InvalidChoice(value))
			return nil, nil
		}
		ids = append(ids, id)
	}

	courses, err := s.courseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[int64]bool, len(courses))
	for _, c := range courses {
		known[c.ID] = true
	}

	unique := make([]int64, 0, len(ids))
	seen := map[int64]bool{}
	for i, id := range ids {
		if !known[id] {
			errs.Add("courses", validation.InvalidChoice(raw[i]))
			return nil, nil
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique, nil
}

// translateStudentConstraint turns a lost uniqueness race into the pre-flight message
func translateStudentConstraint(err error, errs apperrors.FieldErrors) bool {
	switch {
	case errors.Is(err, apperrors.ErrStudentIDAlreadyExists):
		errs.Add("student_id", MsgStudentIDExists)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		errs.Add("email", MsgStudentEmailExists)
	case errors.Is(err, apperrors.ErrCourseNotFound):
		errs.Add("courses", validation.MsgInvalidChoice)
	default:
		return false
	}
	return true
}

// CreateStudent validates the form and stores the student with its enrollments
func (s *studentServiceImpl) CreateStudent(ctx context.Context, form *dto.StudentForm) (*models.Student, error) {
	student, errs, err := s.validateStudentForm(ctx, form, 0)
	if err != nil {
		return nil, fmt.Errorf("error validating student: %w", err)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if translateStudentConstraint(err, errs) {
			return nil, errs
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().Int64("id", student.ID).Str("studentId", student.StudentID).Msg("Student created")
	return student, nil
}

// UpdateStudent validates the form and overwrites the student and its enrollments
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, form *dto.StudentForm) (*models.Student, error) {
	if _, err := s.GetStudent(ctx, id); err != nil {
		return nil, err
	}

	student, errs, err := s.validateStudentForm(ctx, form, id)
	if err != nil {
		return nil, fmt.Errorf("error validating student: %w", err)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		if translateStudentConstraint(err, errs) {
			return nil, errs
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	s.logger.Info().Int64("id", student.ID).Msg("Student updated")
	return student, nil
}

// DeleteStudent removes the student together with its grades and enrollments
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return err
		}
		return fmt.Errorf("error deleting student: %w", err)
	}

	s.logger.Info().Int64("id", id).Msg("Student deleted")
	return nil
}
