package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_AppliesInOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000002_second.up.sql"), []byte("SELECT 2"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_first.up.sql"), []byte("SELECT 1"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_first.down.sql"), []byte("SELECT -1"), 0o600))

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "postgres")

	mock.ExpectBegin()
	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("SELECT 2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	applied, err := RunMigrations(db, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_first.up.sql", "000002_second.up.sql"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_EmptyDir(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	_, err = RunMigrations(sqlx.NewDb(mockDB, "postgres"), t.TempDir())
	assert.ErrorContains(t, err, "no migrations found")
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "reviews_product_customer_key"}

	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(err, "reviews_product_customer_key"))
	assert.False(t, IsUniqueViolation(err, "helpful_votes_review_voter_key"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(assert.AnError))
}
