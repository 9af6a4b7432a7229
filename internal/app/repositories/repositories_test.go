package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%lee%`, containsPattern("lee"))
	assert.Equal(t, `%50\%\_off\\%`, containsPattern(`50%_off\`))
}

func TestCourseRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(`INSERT INTO courses \(name,code,credits\) VALUES \(\$1,\$2,\$3\) RETURNING id`).
		WithArgs("Intro to CS", "CS101", 3).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	course := &models.Course{Name: "Intro to CS", Code: "CS101", Credits: 3}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.Equal(t, int64(7), course.ID)
}

func TestCourseRepository_CreateDuplicateCode(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(`INSERT INTO courses`).
		WithArgs("Intro to CS", "CS101", 3).
		WillReturnError(&pgconn.PgError{
			Code:           dberrors.CodeUniqueViolation,
			ConstraintName: dberrors.ConstraintCourseCode,
		})

	err := repo.Create(context.Background(), &models.Course{Name: "Intro to CS", Code: "CS101", Credits: 3})
	assert.ErrorIs(t, err, apperrors.ErrCourseCodeAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestCourseRepository_GetAllOrderedByName(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(`SELECT id, name, code, credits FROM courses ORDER BY name ASC, id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "code", "credits"}).
			AddRow(int64(2), "Algebra", "MA101", 4).
			AddRow(int64(1), "Biology", "BI101", 3))

	courses, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Algebra", courses[0].Name)
}

func TestCourseRepository_GetByIDsEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)

	courses, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestStudentRepository_CreateWithEnrollments(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)
	fixed := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO students`).
		WithArgs("STU001", "Ana", "Lee", "ana@example.com", models.YearFirst, fixed, fixed).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(`INSERT INTO student_courses \(student_id,course_id\) VALUES \(\$1,\$2\),\(\$3,\$4\) ON CONFLICT DO NOTHING`).
		WithArgs(int64(11), int64(1), int64(11), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	student := &models.Student{
		StudentID: "STU001",
		FirstName: "Ana",
		LastName:  "Lee",
		Email:     "ana@example.com",
		Year:      models.YearFirst,
		CourseIDs: []int64{1, 2},
	}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(11), student.ID)
	assert.Equal(t, fixed, student.CreatedAt)
}

func TestStudentRepository_CreateDuplicateEmailRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO students`).
		WithArgs("STU001", "Ana", "Lee", "ana@example.com", models.YearFirst, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{
			Code:           dberrors.CodeUniqueViolation,
			ConstraintName: dberrors.ConstraintStudentEmail,
		})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Student{
		StudentID: "STU001",
		FirstName: "Ana",
		LastName:  "Lee",
		Email:     "ana@example.com",
		Year:      models.YearFirst,
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestStudentRepository_DeleteCascades(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM grades WHERE student_id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM student_courses WHERE student_id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM students WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 5))
}

func TestStudentRepository_DeleteMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM grades`).WithArgs(int64(9)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM student_courses`).WithArgs(int64(9)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM students`).WithArgs(int64(9)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentRepository_ListWithSearch(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)
	created := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM students WHERE \(first_name ILIKE \$1 OR last_name ILIKE \$2 OR student_id ILIKE \$3\) ORDER BY student_id ASC, id ASC LIMIT 10 OFFSET 10`).
		WithArgs("%lee%", "%lee%", "%lee%").
		WillReturnRows(pgxmock.NewRows(studentColumns).
			AddRow(int64(1), "STU011", "Ana", "Lee", "ana@example.com", models.YearSecond, created, created))

	students, err := repo.List(context.Background(), StudentFilter{Search: "lee", Offset: 10, Limit: 10})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "STU011", students[0].StudentID)
	assert.Equal(t, models.YearSecond, students[0].Year)
}

func TestStudentRepository_GetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery(`FROM students WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(studentColumns))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentRepository_EmailExistsExcludesSelf(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery(`SELECT EXISTS\( SELECT 1 FROM students WHERE email = \$1 AND id <> \$2 \)`).
		WithArgs("ana@example.com", int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.EmailExists(context.Background(), "ana@example.com", 3)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGradeRepository_CreateDuplicatePair(t *testing.T) {
	mock := newMock(t)
	repo := NewGradeRepository(mock)

	mock.ExpectQuery(`INSERT INTO grades`).
		WithArgs(int64(1), int64(2), models.LetterA, 95).
		WillReturnError(&pgconn.PgError{
			Code:           dberrors.CodeUniqueViolation,
			ConstraintName: dberrors.ConstraintGradeStudentPair,
		})

	err := repo.Create(context.Background(), &models.Grade{StudentID: 1, CourseID: 2, Letter: models.LetterA, Marks: 95})
	assert.ErrorIs(t, err, apperrors.ErrGradeAlreadyExists)
}

func TestGradeRepository_GetByStudentID(t *testing.T) {
	mock := newMock(t)
	repo := NewGradeRepository(mock)

	mock.ExpectQuery(`FROM grades g JOIN students s ON s.id = g.student_id JOIN courses c ON c.id = g.course_id WHERE g.student_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "student_id", "course_id", "grade", "marks",
			"student_id", "first_name", "last_name", "email", "year",
			"name", "code", "credits",
		}).AddRow(
			int64(4), int64(1), int64(2), models.LetterB, 85,
			"STU001", "Ana", "Lee", "ana@example.com", models.YearFirst,
			"Intro to CS", "CS101", 3,
		))

	grades, err := repo.GetByStudentID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "CS101 - Intro to CS", grades[0].Course.String())
	assert.Equal(t, int64(2), grades[0].Course.ID)
	assert.Equal(t, "STU001 - Ana Lee", grades[0].Student.String())
}

func TestUserRepository_GetByUsernameNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("staff", "staff@example.com", "hash", true).
		WillReturnError(&pgconn.PgError{
			Code:           dberrors.CodeUniqueViolation,
			ConstraintName: dberrors.ConstraintUsername,
		})

	err := repo.Create(context.Background(), &models.User{
		Username: "staff", Email: "staff@example.com", Password: "hash", IsActive: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)
}
