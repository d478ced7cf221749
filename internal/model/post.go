package model

import "time"

// Image is a file staged for upload together with its declared media type.
type Image struct {
	Name      string `json:"name"`
	MediaType string `json:"type" validate:"startswith=image/"`
	Data      []byte `json:"-"`
}

// PostDraft is an unsubmitted post.
type PostDraft struct {
	Content string `json:"content" validate:"min=10"`
	Approve bool   `json:"approve" validate:"required"`
	Image   *Image `json:"image" validate:"required"`
}

// Post represents a created post.
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Approve   bool      `json:"approve"`
	ImageName string    `json:"image_name"`
	ImageType string    `json:"image_type"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}

// PostListResponse is the body of GET /api/posts.
type PostListResponse struct {
	Success bool   `json:"success"`
	Posts   []Post `json:"posts"`
}

// PostResponse wraps a created post.
type PostResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Post    *Post             `json:"post,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}
