package service

import (
	"testing"

	"github.com/oakmill/taskman/internal/apperr"
	"github.com/oakmill/taskman/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileRejectsDisallowedFields(t *testing.T) {
	env := newTestEnv(t)

	user, _, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)

	_, err = env.user.UpdateProfile(user, map[string]any{"location": "St.George"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// No fields changed
	stored, err := env.users.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arnold", stored.Name)
}

func TestUpdateProfileAllowedFields(t *testing.T) {
	env := newTestEnv(t)

	user, _, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)

	updated, err := env.user.UpdateProfile(user, map[string]any{
		"name":  "George",
		"email": "George@Example.com",
		"age":   float64(33),
	})
	require.NoError(t, err)
	assert.Equal(t, "George", updated.Name)
	assert.Equal(t, "george@example.com", updated.Email)
	require.NotNil(t, updated.Age)
	assert.Equal(t, int64(33), *updated.Age)
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	env := newTestEnv(t)

	user, _, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)
	oldHash := user.PasswordHash

	updated, err := env.user.UpdateProfile(user, map[string]any{"password": "Brandnewpass7"})
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, updated.PasswordHash)
	assert.NotEqual(t, "Brandnewpass7", updated.PasswordHash)

	_, _, err = env.auth.Login("arnold@example.com", "Brandnewpass7")
	require.NoError(t, err)
	_, _, err = env.auth.Login("arnold@example.com", "Arnoldpass7")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestUpdateProfileValidatesValues(t *testing.T) {
	env := newTestEnv(t)

	user, _, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)

	tests := []struct {
		name    string
		updates map[string]any
	}{
		{"negative age", map[string]any{"age": float64(-1)}},
		{"fractional age", map[string]any{"age": 33.5}},
		{"age wrong type", map[string]any{"age": "old"}},
		{"empty name", map[string]any{"name": "  "}},
		{"bad email", map[string]any{"email": "nope"}},
		{"weak password", map[string]any{"password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.user.UpdateProfile(user, tt.updates)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)
	user, _, err := env.auth.Signup("Barnabas", "barnabas@example.com", "Nevermind7")
	require.NoError(t, err)

	_, err = env.user.UpdateProfile(user, map[string]any{"email": "arnold@example.com"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDeleteAccountCascades(t *testing.T) {
	env := newTestEnv(t)

	user, token, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)

	_, err = env.task.Create(user.ID, "Buy milk", false)
	require.NoError(t, err)
	_, err = env.task.Create(user.ID, "Walk the dog", true)
	require.NoError(t, err)

	require.NoError(t, env.user.DeleteAccount(user))

	_, err = env.users.ByID(user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	// All owned tasks are gone with the account
	tasks, err := env.tasks.Tasks(user.ID, repository.TaskListParams{})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// The deleted account's sessions no longer authenticate
	_, err = env.auth.Authenticate(token)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}
