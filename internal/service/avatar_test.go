package service

import (
	"bytes"
	"io"
	"mime/multipart"
	"testing"

	"github.com/oakmill/taskman/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func openMemFile(data []byte, name string) (multipart.File, *multipart.FileHeader) {
	return memFile{bytes.NewReader(data)}, &multipart.FileHeader{
		Filename: name,
		Size:     int64(len(data)),
	}
}

func TestAvatarUploadAndOpen(t *testing.T) {
	env := newTestEnv(t)

	user, _, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)

	file, header := openMemFile([]byte("png-bytes"), "profile.png")
	require.NoError(t, env.avatars.Upload(user, file, header))
	require.True(t, user.HasAvatar())
	assert.Equal(t, 1, env.storage.len())

	reader, contentType, err := env.avatars.Open(user.ID)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/png", contentType)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestAvatarReplaceDeletesOldObject(t *testing.T) {
	env := newTestEnv(t)

	user, _, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)

	file, header := openMemFile([]byte("first"), "one.png")
	require.NoError(t, env.avatars.Upload(user, file, header))
	first := *user.AvatarPath

	file, header = openMemFile([]byte("second"), "two.jpg")
	require.NoError(t, env.avatars.Upload(user, file, header))

	assert.NotEqual(t, first, *user.AvatarPath)
	assert.Equal(t, 1, env.storage.len())

	_, contentType, err := env.avatars.Open(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestAvatarDelete(t *testing.T) {
	env := newTestEnv(t)

	user, _, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)

	file, header := openMemFile([]byte("png-bytes"), "profile.png")
	require.NoError(t, env.avatars.Upload(user, file, header))

	require.NoError(t, env.avatars.Delete(user))
	assert.False(t, user.HasAvatar())
	assert.Equal(t, 0, env.storage.len())

	_, _, err = env.avatars.Open(user.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Deleting again is a no-op
	require.NoError(t, env.avatars.Delete(user))
}

func TestAvatarOpenUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.avatars.Open("no-such-user")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteAccountRemovesAvatarObject(t *testing.T) {
	env := newTestEnv(t)

	user, _, err := env.auth.Signup("Arnold", "arnold@example.com", "Arnoldpass7")
	require.NoError(t, err)

	file, header := openMemFile([]byte("png-bytes"), "profile.png")
	require.NoError(t, env.avatars.Upload(user, file, header))
	require.Equal(t, 1, env.storage.len())

	require.NoError(t, env.user.DeleteAccount(user))
	assert.Equal(t, 0, env.storage.len())
}
