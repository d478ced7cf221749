// Package remote is the client's HTTP transport to the postdeck backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/postdeck/postdeck-go/internal/model"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client calls the backend's /login, /signup and /api/posts endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for baseURL. A nil httpClient gets a default
// client with the given timeout.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Authenticate checks a username/password pair. A rejected pair yields
// ErrUnauthorized.
func (c *Client) Authenticate(ctx context.Context, username, password string) (model.AuthResponse, error) {
	body := model.Credentials{Username: username, Password: password}

	status, resp, err := c.postJSON(ctx, "/login", body)
	if err != nil {
		return model.AuthResponse{}, err
	}

	switch {
	case status == http.StatusUnauthorized:
		return resp, ErrUnauthorized
	case status >= 200 && status < 300 && resp.Success:
		return resp, nil
	default:
		return resp, &StatusError{Code: status, Message: resp.Message}
	}
}

// Register creates an account. An existing username yields ErrConflict; a
// payload the server refuses yields a *StatusError with code 400.
func (c *Client) Register(ctx context.Context, username, password, email string) (model.AuthResponse, error) {
	body := model.RegisterRequest{Username: username, Password: password, Email: email}

	status, resp, err := c.postJSON(ctx, "/signup", body)
	if err != nil {
		return model.AuthResponse{}, err
	}

	switch {
	case status == http.StatusConflict:
		return resp, ErrConflict
	case status >= 200 && status < 300 && resp.Success:
		return resp, nil
	default:
		return resp, &StatusError{Code: status, Message: resp.Message}
	}
}

// CreatePost uploads a validated draft as multipart form data. Anything but
// 201 Created is an error.
func (c *Client) CreatePost(ctx context.Context, draft model.PostDraft) (model.Post, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("content", draft.Content); err != nil {
		return model.Post{}, err
	}
	if err := mw.WriteField("approve", strconv.FormatBool(draft.Approve)); err != nil {
		return model.Post{}, err
	}
	if draft.Image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(draft.Image.Name)))
		h.Set("Content-Type", draft.Image.MediaType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return model.Post{}, err
		}
		if _, err := part.Write(draft.Image.Data); err != nil {
			return model.Post{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return model.Post{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/posts", &buf)
	if err != nil {
		return model.Post{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.http.Do(req)
	if err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}
	defer res.Body.Close()

	var resp model.PostResponse
	decodeErr := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&resp)

	if res.StatusCode != http.StatusCreated {
		msg := resp.Message
		if decodeErr != nil || msg == "" {
			msg = "Server error"
		}
		return model.Post{}, &StatusError{Code: res.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return model.Post{}, fmt.Errorf("decode post response: %w", decodeErr)
	}
	if resp.Post == nil {
		return model.Post{}, fmt.Errorf("decode post response: missing post")
	}
	return *resp.Post, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (int, model.AuthResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, model.AuthResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, model.AuthResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return 0, model.AuthResponse{}, fmt.Errorf("POST %s: %w", path, err)
	}
	defer res.Body.Close()

	// Error statuses are classified by code, so their bodies are best-effort.
	var resp model.AuthResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&resp); err != nil {
		if res.StatusCode >= 200 && res.StatusCode < 300 {
			return res.StatusCode, model.AuthResponse{}, fmt.Errorf("decode %s response (status %d): %w", path, res.StatusCode, err)
		}
		resp = model.AuthResponse{}
	}
	return res.StatusCode, resp, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
