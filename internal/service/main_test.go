package service

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oakmill/taskman/internal/db"
	"github.com/oakmill/taskman/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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

// memStorage is an in-memory stand-in for the S3 object store.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (s *memStorage) Save(path string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return nil
}

func (s *memStorage) Open(path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("object %q not found", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *memStorage) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type testEnv struct {
	db      *sqlx.DB
	users   repository.UserRepository
	tokens  repository.TokenRepository
	tasks   repository.TaskRepository
	storage *memStorage

	auth    *AuthService
	user    *UserService
	task    *TaskService
	avatars *AvatarService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := newTestDB(t)
	users := repository.NewUserRepository(database)
	tokens := repository.NewTokenRepository(database)
	tasks := repository.NewTaskRepository(database)
	store := newMemStorage()

	email := NewEmailService("", "noreply@example.com", "Taskman", true)
	auth := NewAuthService(users, tokens, email, "test-secret", time.Hour, bcrypt.MinCost)
	avatars := NewAvatarService(users, store)
	user := NewUserService(users, auth, avatars, email)
	task := NewTaskService(tasks)

	return &testEnv{
		db:      database,
		users:   users,
		tokens:  tokens,
		tasks:   tasks,
		storage: store,
		auth:    auth,
		user:    user,
		task:    task,
		avatars: avatars,
	}
}
