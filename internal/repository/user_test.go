package repository

import (
	"testing"
	"time"

	"github.com/oakmill/taskman/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndLookup(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)

	created := seedUser(t, users, "Joseph", "joseph@example.com")

	byID, err := users.ByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "joseph@example.com", byID.Email)

	byEmail, err := users.ByEmail("joseph@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = users.ByID("no-such-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDuplicateEmail(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)

	seedUser(t, users, "Joseph", "joseph@example.com")

	dup := &model.User{
		ID:           "other-id",
		Name:         "Other",
		Email:        "joseph@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	err := users.Create(dup)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserUpdateToTakenEmail(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)

	seedUser(t, users, "Joseph", "joseph@example.com")
	barnabas := seedUser(t, users, "Barnabas", "barnabas@example.com")

	barnabas.Email = "joseph@example.com"
	err := users.Update(barnabas)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserDeleteCascades(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	tokens := NewTokenRepository(database)
	tasks := NewTaskRepository(database)

	user := seedUser(t, users, "Joseph", "joseph@example.com")
	require.NoError(t, tokens.Create(&model.SessionToken{UserID: user.ID, Token: "session-token"}))
	seedTask(t, tasks, user.ID, "First task", false, time.Now())

	err := users.Delete(user.ID)
	require.NoError(t, err)

	_, err = users.ByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = tokens.ByUserAndToken(user.ID, "session-token")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = tasks.ByID(user.ID, "First task-id")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = users.Delete(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
