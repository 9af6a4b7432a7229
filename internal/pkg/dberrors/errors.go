package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes used by the repositories.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

// Constraint names declared by the migrations.
const (
	ConstraintCourseCode       = "courses_code_key"
	ConstraintStudentID        = "students_student_id_key"
	ConstraintStudentEmail     = "students_email_key"
	ConstraintGradeStudentPair = "grades_student_id_course_id_key"
	ConstraintUsername         = "users_username_key"
	ConstraintGradeStudentFK   = "grades_student_id_fkey"
	ConstraintGradeCourseFK    = "grades_course_id_fkey"
	ConstraintEnrollmentCourse = "student_courses_course_id_fkey"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsForeignKeyConstraintError checks if the error is a foreign key violation for a specific constraint.
func IsForeignKeyConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeForeignKeyViolation && pgErr.ConstraintName == constraintName
}
