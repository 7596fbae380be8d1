package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oakmill/taskman/internal/apperr"
	"github.com/oakmill/taskman/internal/model"
	"github.com/oakmill/taskman/internal/repository"
)

// taskUpdateFields is the allow-list for PATCH /tasks/{id}.
var taskUpdateFields = map[string]bool{
	"description": true,
	"completed":   true,
}

type TaskService struct {
	taskRepository repository.TaskRepository
}

func NewTaskService(taskRepository repository.TaskRepository) *TaskService {
	return &TaskService{taskRepository: taskRepository}
}

// Create makes a new task owned by the acting user. The owner is fixed at
// creation and never changes.
func (s *TaskService) Create(userID, description string, completed bool) (*model.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.Validation("description is required")
	}

	now := time.Now()
	task := &model.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.taskRepository.Create(task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (s *TaskService) ByID(userID, taskID string) (*model.Task, error) {
	task, err := s.taskRepository.ByID(userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Tasks(userID string, params repository.TaskListParams) ([]*model.Task, error) {
	tasks, err := s.taskRepository.Tasks(userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	return tasks, nil
}

// Update applies a partial update to an owned task. A task belonging to
// someone else reports not-found, exactly like a missing one.
func (s *TaskService) Update(userID, taskID string, updates map[string]any) (*model.Task, error) {
	for key := range updates {
		if !taskUpdateFields[key] {
			return nil, apperr.Validation("invalid updates")
		}
	}

	task, err := s.ByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	if raw, ok := updates["description"]; ok {
		description, ok := raw.(string)
		if !ok {
			return nil, apperr.Validation("description must be a string")
		}
		description = strings.TrimSpace(description)
		if description == "" {
			return nil, apperr.Validation("description is required")
		}
		task.Description = description
	}

	if raw, ok := updates["completed"]; ok {
		completed, ok := raw.(bool)
		if !ok {
			return nil, apperr.Validation("completed must be a boolean")
		}
		task.Completed = completed
	}

	task.UpdatedAt = time.Now()
	err = s.taskRepository.Update(task)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes an owned task and returns its last state.
func (s *TaskService) Delete(userID, taskID string) (*model.Task, error) {
	task, err := s.ByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	err = s.taskRepository.Delete(userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}
