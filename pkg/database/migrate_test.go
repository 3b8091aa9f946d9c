package database

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"0002_second.up.sql": {Data: []byte("CREATE TABLE second_table (id INT)")},
		"0001_first.up.sql":  {Data: []byte("CREATE TABLE first_table (id INT)")},
		"README.md":          {Data: []byte("ignored")},
	}
}

func TestApplyMigrations_AppliesPendingInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	// First migration already applied.
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("0001_first.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	// Second migration runs in its own transaction.
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("0002_second.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE second_table").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0002_second.up.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = applyMigrations(context.Background(), mock, testMigrations())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrations_RollsBackOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("0001_first.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE first_table").
		WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	err = applyMigrations(context.Background(), mock, testMigrations())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute migration 0001_first.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrations_TrackingTableError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnError(errors.New("permission denied"))

	err = applyMigrations(context.Background(), mock, testMigrations())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create schema_migrations table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrations(t *testing.T) {
	content, err := migrationFiles.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)

	sql := string(content)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS bonus_accounts")
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS reviews")
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS blog_posts")
	assert.Contains(t, sql, "reviews_reviewed_at_matches_status")
}
