package model

import (
	"encoding/json"
	"time"
)

type Task struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"` // Owner, immutable after creation
	Description string    `db:"description"`
	Completed   bool      `db:"completed"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (t *Task) MarshalJSON() ([]byte, error) {
	type publicTask struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Completed   bool      `json:"completed"`
		Owner       string    `json:"owner"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	return json.Marshal(publicTask{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		Owner:       t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
}
