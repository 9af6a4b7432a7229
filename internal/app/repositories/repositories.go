package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository  ICourseRepository
	StudentRepository IStudentRepository
	GradeRepository   IGradeRepository
	UserRepository    IUserRepository
}

// NewRepositories initializes the PostgreSQL repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		CourseRepository:  NewCourseRepository(db),
		StudentRepository: NewStudentRepository(db),
		GradeRepository:   NewGradeRepository(db),
		UserRepository:    NewUserRepository(db),
	}
}

// statementBuilder produces $n placeholders for PostgreSQL
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// withTransaction runs fn inside a transaction, rolling back when fn fails
func withTransaction(ctx context.Context, db DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching value anywhere in the column
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
