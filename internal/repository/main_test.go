package repository

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oakmill/taskman/internal/db"
	"github.com/oakmill/taskman/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)

	// An in-memory database lives on a single connection
	database.SetMaxOpenConns(1)

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	t.Cleanup(func() { _ = database.Close() })
	return database
}

func seedUser(t *testing.T, users UserRepository, name, email string) *model.User {
	t.Helper()

	now := time.Now()
	user := &model.User{
		ID:           name + "-id",
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$notarealhashnotarealhashnotarealhash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, users.Create(user))
	return user
}

func seedTask(t *testing.T, tasks TaskRepository, userID, description string, completed bool, createdAt time.Time) *model.Task {
	t.Helper()

	task := &model.Task{
		ID:          description + "-id",
		UserID:      userID,
		Description: description,
		Completed:   completed,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, tasks.Create(task))
	return task
}
