package repository

import (
	"context"
	"database/sql"

	"github.com/postdeck/postdeck-go/internal/model"
)

// PostRepository handles post persistence in MySQL.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a post. ID and CreatedAt must already be set.
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (id, content, approve, image_name, image_type, image_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.Content,
		post.Approve,
		post.ImageName,
		post.ImageType,
		post.ImagePath,
		post.CreatedAt,
	)
	return err
}

// List returns posts newest first.
func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	query := `SELECT id, content, approve, image_name, image_type, image_path, created_at
		FROM posts ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Content, &p.Approve, &p.ImageName, &p.ImageType, &p.ImagePath, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}
