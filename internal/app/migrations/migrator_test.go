package migrations

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", versionOf("001_init.sql"))
	assert.Equal(t, "002", versionOf("sql/002_add_index.sql"))
}

func TestEmbeddedFilesPresent(t *testing.T) {
	content, err := Files().Open("001_init.sql")
	require.NoError(t, err)
	require.NoError(t, content.Close())
}

func TestUpAppliesPendingInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	files := fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INT);")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INT);")},
		"README.md":      {Data: []byte("ignored")},
	}

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM schema_migrations WHERE version = \$1\)`).
		WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM schema_migrations WHERE version = \$1\)`).
		WithArgs("002").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE b`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`INSERT INTO schema_migrations \(version\) VALUES \(\$1\)`).
		WithArgs("002").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, NewMigrator(mock, files).Up(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRollsBackOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	files := fstest.MapFS{"001_bad.sql": {Data: []byte("CREATE TABLE broken (")}}

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE broken`).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	err = NewMigrator(mock, files).Apply(context.Background(), "001_bad.sql")
	assert.ErrorContains(t, err, "001_bad.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
