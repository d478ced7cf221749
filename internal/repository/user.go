package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/postdeck/postdeck-go/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// UserRepository handles user persistence in MySQL.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, password, email) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, user.Username, user.Password, user.Email); err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT username, password, email FROM users WHERE username = ?`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.Username, &user.Password, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
