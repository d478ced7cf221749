package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/service"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service  *service.PostService
	maxBytes int64
}

// NewPostHandler creates a new PostHandler. Request bodies above maxBytes
// are rejected with 413.
func NewPostHandler(svc *service.PostService, maxBytes int64) *PostHandler {
	return &PostHandler{service: svc, maxBytes: maxBytes}
}

// HandleCreate handles POST /api/posts multipart requests.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, postError("request body too large", nil))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, postError("request body too large", nil))
			return
		}
		writeJSON(w, http.StatusBadRequest, postError("invalid multipart form", nil))
		return
	}
	defer r.MultipartForm.RemoveAll()

	approve, _ := strconv.ParseBool(r.FormValue("approve"))
	draft := model.PostDraft{
		Content: r.FormValue("content"),
		Approve: approve,
	}

	img, err := readImage(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, postError("invalid image upload", nil))
		return
	}
	draft.Image = img

	post, err := h.service.Create(r.Context(), draft)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, postError(verr.Error(), verr.Fields))
			return
		}
		slog.Error("create post failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, postError("Server error", nil))
		return
	}

	writeJSON(w, http.StatusCreated, model.PostResponse{
		Success: true,
		Message: "Post created",
		Post:    post,
	})
}

// HandleList handles GET /api/posts requests.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list posts failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, postError("Server error", nil))
		return
	}

	writeJSON(w, http.StatusOK, model.PostListResponse{Success: true, Posts: posts})
}

// readImage returns the uploaded image part, or nil when none was sent.
func readImage(r *http.Request) (*model.Image, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(data)
	}

	return &model.Image{Name: header.Filename, MediaType: mediaType, Data: data}, nil
}

func postError(msg string, fields map[string]string) model.PostResponse {
	return model.PostResponse{Success: false, Message: msg, Errors: fields}
}
