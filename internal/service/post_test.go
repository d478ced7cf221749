package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postdeck/postdeck-go/internal/model"
)

type memPosts struct {
	created []model.Post
	err     error
}

func (m *memPosts) Create(_ context.Context, p *model.Post) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, *p)
	return nil
}

func (m *memPosts) List(context.Context) ([]model.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Post, 0, len(m.created))
	for i := len(m.created) - 1; i >= 0; i-- {
		out = append(out, m.created[i])
	}
	return out, nil
}

type memImages struct {
	saved int
}

func (m *memImages) Save(name, _ string, _ []byte) (string, error) {
	m.saved++
	return "uploads/" + name, nil
}

func validDraft() model.PostDraft {
	return model.PostDraft{
		Content: "Hello world!",
		Approve: true,
		Image:   &model.Image{Name: "cat.png", MediaType: "image/png", Data: []byte("png")},
	}
}

func TestCreatePost(t *testing.T) {
	posts := &memPosts{}
	images := &memImages{}
	svc := NewPostService(posts, images)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	post, err := svc.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if post.ID == "" {
		t.Error("expected generated id")
	}
	if post.ImagePath != "uploads/cat.png" || post.ImageType != "image/png" {
		t.Errorf("unexpected image fields: %+v", post)
	}
	if !post.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", post.CreatedAt, fixed)
	}
	if len(posts.created) != 1 || images.saved != 1 {
		t.Errorf("expected one post and one image, got %d/%d", len(posts.created), images.saved)
	}
}

func TestCreatePost_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*model.PostDraft)
		field string
	}{
		{"short content", func(d *model.PostDraft) { d.Content = "too short" }, "content"},
		{"not approved", func(d *model.PostDraft) { d.Approve = false }, "approve"},
		{"no image", func(d *model.PostDraft) { d.Image = nil }, "image"},
		{"not an image", func(d *model.PostDraft) { d.Image.MediaType = "text/plain" }, "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := &memImages{}
			svc := NewPostService(&memPosts{}, images)
			draft := validDraft()
			tt.mod(&draft)

			_, err := svc.Create(context.Background(), draft)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("expected %s failure, got %v", tt.field, verr.Fields)
			}
			if images.saved != 0 {
				t.Error("image stored for an invalid draft")
			}
		})
	}
}

func TestCreatePost_StoreFailure(t *testing.T) {
	boom := errors.New("insert failed")
	svc := NewPostService(&memPosts{err: boom}, &memImages{})

	_, err := svc.Create(context.Background(), validDraft())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestListPosts(t *testing.T) {
	posts := &memPosts{}
	svc := NewPostService(posts, &memImages{})

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}

	if _, err := svc.Create(context.Background(), validDraft()); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err = svc.List(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("list = %v, %v", got, err)
	}
}

func TestListPosts_StoreFailure(t *testing.T) {
	boom := errors.New("query failed")
	svc := NewPostService(&memPosts{err: boom}, &memImages{})

	if _, err := svc.List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
