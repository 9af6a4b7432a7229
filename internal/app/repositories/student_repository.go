package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// StudentRepository handles database operations for students and their enrollments
type StudentRepository struct {
	db  DBTX
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{
		db:  db,
		sb:  statementBuilder(),
		now: func() time.Time { return time.Now().UTC() },
	}
}

var studentColumns = []string{
	"id", "student_id", "first_name", "last_name", "email", "year", "created_at", "updated_at",
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	if err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.Year,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// translateStudentWriteError maps constraint violations to typed errors
func translateStudentWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentID):
		return apperrors.ErrStudentIDAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentEmail):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsForeignKeyConstraintError(err, dberrors.ConstraintEnrollmentCourse):
		return apperrors.ErrCourseNotFound
	default:
		return nil
	}
}

// Create inserts a student with its enrollments in one transaction
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := r.now()

	err := withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("students").
			Columns("student_id", "first_name", "last_name", "email", "year", "created_at", "updated_at").
			Values(student.StudentID, student.FirstName, student.LastName, student.Email, student.Year, now, now).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert student query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
			return err
		}
		return r.insertEnrollments(ctx, tx, student.ID, student.CourseIDs)
	})
	if err != nil {
		if typed := translateStudentWriteError(err); typed != nil {
			return typed
		}
		logger.Error().Err(err).Str("studentId", student.StudentID).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}

	student.CreatedAt = now
	student.UpdatedAt = now
	return nil
}

// Update overwrites a student's fields and replaces its enrollments in one transaction
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	now := r.now()

	err := withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.sb.Update("students").
			Set("student_id", student.StudentID).
			Set("first_name", student.FirstName).
			Set("last_name", student.LastName).
			Set("email", student.Email).
			Set("year", student.Year).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": student.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update student query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM student_courses WHERE student_id = $1`, student.ID); err != nil {
			return err
		}
		return r.insertEnrollments(ctx, tx, student.ID, student.CourseIDs)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return err
		}
		if typed := translateStudentWriteError(err); typed != nil {
			return typed
		}
		logger.Error().Err(err).Int64("id", student.ID).Msg("Error updating student")
		return fmt.Errorf("error updating student: %w", err)
	}

	student.UpdatedAt = now
	return nil
}

func (r *StudentRepository) insertEnrollments(ctx context.Context, tx pgx.Tx, studentID int64, courseIDs []int64) error {
	if len(courseIDs) == 0 {
		return nil
	}

	builder := r.sb.Insert("student_courses").Columns("student_id", "course_id")
	for _, courseID := range courseIDs {
		builder = builder.Values(studentID, courseID)
	}
	sql, args, err := builder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert enrollments query: %w", err)
	}

	_, err = tx.Exec(ctx, sql, args...)
	return err
}

// GetByID retrieves a student with its enrolled courses
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	courses, err := r.enrolledCourses(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Courses = courses
	student.CourseIDs = make([]int64, 0, len(courses))
	for _, c := range courses {
		student.CourseIDs = append(student.CourseIDs, c.ID)
	}
	return student, nil
}

func (r *StudentRepository) enrolledCourses(ctx context.Context, studentID int64) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("c.id", "c.name", "c.code", "c.credits").
		From("courses c").
		Join("student_courses sc ON sc.course_id = c.id").
		Where(squirrel.Eq{"sc.student_id": studentID}).
		OrderBy("c.name ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrolled courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrolled courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrolled course: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// Delete removes the student's grades, its enrollments and then the student, atomically
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	err := withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM grades WHERE student_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM student_courses WHERE student_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return err
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", err)
	}
	return nil
}

// searchCondition matches the term against student_id, first_name or last_name
func searchCondition(search string) squirrel.Sqlizer {
	pattern := containsPattern(search)
	return squirrel.Or{
		squirrel.ILike{"first_name": pattern},
		squirrel.ILike{"last_name": pattern},
		squirrel.ILike{"student_id": pattern},
	}
}

// List returns one window of students ordered by student_id
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]*models.Student, error) {
	builder := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("student_id ASC", "id ASC")
	if filter.Search != "" {
		builder = builder.Where(searchCondition(filter.Search))
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}
	return r.queryStudents(ctx, sql, args...)
}

// Count returns the number of students matching search; empty search counts all
func (r *StudentRepository) Count(ctx context.Context, search string) (int64, error) {
	builder := r.sb.Select("COUNT(*)").From("students")
	if search != "" {
		builder = builder.Where(searchCondition(search))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// Recent returns the most recently created students, newest first
func (r *StudentRepository) Recent(ctx context.Context, limit uint64) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent students query: %w", err)
	}
	return r.queryStudents(ctx, sql, args...)
}

// GetAll returns every student ordered by student_id
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	return r.List(ctx, StudentFilter{})
}

func (r *StudentRepository) queryStudents(ctx context.Context, sql string, args ...any) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return students, nil
}

// StudentIDExists checks if a student number is used by a student other than excludeID
func (r *StudentRepository) StudentIDExists(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	return r.exists(ctx, "student_id", studentID, excludeID)
}

// EmailExists checks if an email is used by a student other than excludeID
func (r *StudentRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *StudentRepository) exists(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{column: value}).
		Where(squirrel.NotEq{"id": excludeID}).
		Prefix("SELECT EXISTS(").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build student exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking student %s: %w", column, err)
	}
	return exists, nil
}
