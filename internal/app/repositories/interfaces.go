package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/studentrecords/internal/app/models"
)

// DBTX is the subset of *pgxpool.Pool used by the repositories.
// pgx.Tx and pgxmock pools satisfy it as well.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StudentFilter narrows a student listing
type StudentFilter struct {
	// Search matches student_id, first_name or last_name, case-insensitively
	Search string
	Offset uint64
	Limit  uint64
}

// ICourseRepository defines course persistence
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// IStudentRepository defines student persistence, enrollments included
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	// Delete removes the student together with its grades and enrollments
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter StudentFilter) ([]*models.Student, error)
	Count(ctx context.Context, search string) (int64, error)
	Recent(ctx context.Context, limit uint64) ([]*models.Student, error)
	GetAll(ctx context.Context) ([]*models.Student, error)
	StudentIDExists(ctx context.Context, studentID string, excludeID int64) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
}

// IGradeRepository defines grade persistence
type IGradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	Exists(ctx context.Context, studentID, courseID int64) (bool, error)
	// GetByStudentID returns the student's grades with Course populated
	GetByStudentID(ctx context.Context, studentID int64) ([]*models.Grade, error)
	// GetAll returns every grade with Student and Course populated
	GetAll(ctx context.Context) ([]*models.Grade, error)
	Count(ctx context.Context) (int64, error)
}

// IUserRepository defines staff account persistence
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}
