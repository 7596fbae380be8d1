package service

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oakmill/taskman/internal/apperr"
	"github.com/oakmill/taskman/internal/model"
	"github.com/oakmill/taskman/internal/repository"
	"github.com/oakmill/taskman/internal/storage"
)

// AvatarService stores profile images in object storage and tracks the
// current object key on the user row.
type AvatarService struct {
	userRepository repository.UserRepository
	storage        storage.Storage
}

func NewAvatarService(userRepository repository.UserRepository, storage storage.Storage) *AvatarService {
	return &AvatarService{
		userRepository: userRepository,
		storage:        storage,
	}
}

// Upload saves a validated image and points the user at it. A previous
// avatar object is deleted best-effort after the row update succeeds.
func (s *AvatarService) Upload(user *model.User, file multipart.File, header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join("avatars", uuid.New().String()+ext)

	err := s.storage.Save(path, file)
	if err != nil {
		return apperr.Dependency("failed to save avatar: %v", err)
	}

	previous := user.AvatarPath
	user.AvatarPath = &path
	user.UpdatedAt = time.Now()

	err = s.userRepository.Update(user)
	if err != nil {
		// Row update failed, don't leave the fresh object orphaned
		delErr := s.storage.Delete(path)
		if delErr != nil {
			slog.Warn("failed to clean up avatar object", "error", delErr, "path", path)
		}
		user.AvatarPath = previous
		return fmt.Errorf("failed to update user: %w", err)
	}

	if previous != nil && *previous != "" {
		err = s.storage.Delete(*previous)
		if err != nil {
			slog.Warn("failed to delete replaced avatar object", "error", err, "path", *previous)
		}
	}

	return nil
}

// Open streams the avatar of any user by id; this endpoint is public in the
// HTTP surface. Missing user and missing avatar are the same not-found.
func (s *AvatarService) Open(userID string) (io.ReadCloser, string, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, "", apperr.NotFound("avatar not found")
	}

	if !user.HasAvatar() {
		return nil, "", apperr.NotFound("avatar not found")
	}

	reader, err := s.storage.Open(*user.AvatarPath)
	if err != nil {
		return nil, "", apperr.Dependency("failed to read avatar: %v", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(*user.AvatarPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return reader, contentType, nil
}

// Delete clears the user's avatar. Removing a missing avatar succeeds.
func (s *AvatarService) Delete(user *model.User) error {
	if !user.HasAvatar() {
		return nil
	}

	path := *user.AvatarPath
	user.AvatarPath = nil
	user.UpdatedAt = time.Now()

	err := s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	err = s.storage.Delete(path)
	if err != nil {
		slog.Warn("failed to delete avatar object", "error", err, "path", path)
	}

	return nil
}

// removeObject deletes a raw storage object, used by account deletion.
func (s *AvatarService) removeObject(path string) error {
	return s.storage.Delete(path)
}
