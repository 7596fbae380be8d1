package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/oakmill/taskman/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

// TokenRepository owns the server-side session token set. A session is only
// valid while its row exists, so deleting a row revokes the session in real
// time even though the JWT signature stays verifiable.
type TokenRepository interface {
	Create(token *model.SessionToken) error
	ByUserAndToken(userID, token string) (*model.SessionToken, error)
	DeleteByUserAndToken(userID, token string) error
	DeleteAllForUser(userID string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.SessionToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `INSERT INTO tokens (id, user_id, token, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, token.ID, token.UserID, token.Token, token.CreatedAt)
	return err
}

func (r *tokenRepository) ByUserAndToken(userID, token string) (*model.SessionToken, error) {
	t := &model.SessionToken{}
	query := `SELECT * FROM tokens WHERE user_id = $1 AND token = $2`

	err := r.db.Get(t, query, userID, token)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}

	return t, err
}

func (r *tokenRepository) DeleteByUserAndToken(userID, token string) error {
	query := `DELETE FROM tokens WHERE user_id = $1 AND token = $2`

	result, err := r.db.Exec(query, userID, token)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTokenNotFound
	}

	return nil
}

func (r *tokenRepository) DeleteAllForUser(userID string) error {
	query := `DELETE FROM tokens WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}
