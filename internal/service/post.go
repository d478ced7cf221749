package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/validate"
)

// PostStore persists created posts.
type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	List(ctx context.Context) ([]model.Post, error)
}

// ImageSaver stores uploaded image bytes and returns where they went.
type ImageSaver interface {
	Save(name, mediaType string, data []byte) (string, error)
}

// PostService handles post creation.
type PostService struct {
	posts  PostStore
	images ImageSaver
	now    func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(posts PostStore, images ImageSaver) *PostService {
	return &PostService{posts: posts, images: images, now: time.Now}
}

// Create validates a draft, stores its image and records the post.
func (s *PostService) Create(ctx context.Context, draft model.PostDraft) (*model.Post, error) {
	res := validate.Post(draft)
	if !res.OK() {
		return nil, &ValidationError{Fields: res.Errors}
	}

	img := draft.Image
	path, err := s.images.Save(img.Name, img.MediaType, img.Data)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	post := &model.Post{
		ID:        uuid.NewString(),
		Content:   draft.Content,
		Approve:   draft.Approve,
		ImageName: img.Name,
		ImageType: img.MediaType,
		ImagePath: path,
		CreatedAt: s.now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// List returns stored posts newest first. It never returns a nil slice.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}
