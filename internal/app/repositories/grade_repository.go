package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// GradeRepository handles database operations for grades
type GradeRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db DBTX) *GradeRepository {
	return &GradeRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create inserts a grade and sets its ID
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	sql, args, err := r.sb.Insert("grades").
		Columns("student_id", "course_id", "grade", "marks").
		Values(grade.StudentID, grade.CourseID, grade.Letter, grade.Marks).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert grade query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&grade.ID); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintGradeStudentPair):
			return apperrors.ErrGradeAlreadyExists
		case dberrors.IsForeignKeyConstraintError(err, dberrors.ConstraintGradeStudentFK):
			return apperrors.ErrStudentNotFound
		case dberrors.IsForeignKeyConstraintError(err, dberrors.ConstraintGradeCourseFK):
			return apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).
			Int64("studentId", grade.StudentID).
			Int64("courseId", grade.CourseID).
			Msg("Error creating grade")
		return fmt.Errorf("error creating grade: %w", err)
	}
	return nil
}

// Exists checks if the student already has a grade for the course
func (r *GradeRepository) Exists(ctx context.Context, studentID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM grades WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking grade existence: %w", err)
	}
	return exists, nil
}

func (r *GradeRepository) selectGradeDetailsQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"g.id", "g.student_id", "g.course_id", "g.grade", "g.marks",
		"s.student_id", "s.first_name", "s.last_name", "s.email", "s.year",
		"c.name", "c.code", "c.credits",
	).
		From("grades g").
		Join("students s ON s.id = g.student_id").
		Join("courses c ON c.id = g.course_id")
}

// GetByStudentID returns the student's grades ordered by course name
func (r *GradeRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	sql, args, err := r.selectGradeDetailsQuery().
		Where(squirrel.Eq{"g.student_id": studentID}).
		OrderBy("c.name ASC", "g.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student grades query: %w", err)
	}
	return r.queryGrades(ctx, sql, args...)
}

// GetAll returns every grade ordered by id
func (r *GradeRepository) GetAll(ctx context.Context) ([]*models.Grade, error) {
	sql, args, err := r.selectGradeDetailsQuery().
		OrderBy("g.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list grades query: %w", err)
	}
	return r.queryGrades(ctx, sql, args...)
}

func (r *GradeRepository) queryGrades(ctx context.Context, sql string, args ...any) ([]*models.Grade, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing grades: %w", err)
	}
	defer rows.Close()

	grades := []*models.Grade{}
	for rows.Next() {
		var (
			g models.Grade
			s models.Student
			c models.Course
		)
		if err := rows.Scan(
			&g.ID, &g.StudentID, &g.CourseID, &g.Letter, &g.Marks,
			&s.StudentID, &s.FirstName, &s.LastName, &s.Email, &s.Year,
			&c.Name, &c.Code, &c.Credits,
		); err != nil {
			return nil, fmt.Errorf("error scanning grade: %w", err)
		}
		s.ID = g.StudentID
		c.ID = g.CourseID
		g.Student = &s
		g.Course = &c
		grades = append(grades, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grades, nil
}

// Count returns the number of grades
func (r *GradeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM grades`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting grades: %w", err)
	}
	return count, nil
}
