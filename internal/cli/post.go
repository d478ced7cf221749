package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/postdeck/postdeck-go/internal/guard"
	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/postmodal"
	"github.com/postdeck/postdeck-go/internal/route"
)

type postOptions struct {
	content    string
	imagePath  string
	drop       []string
	approve    bool
	askApprove bool
	retries    int
}

func newPostCmd(app *App) *cobra.Command {
	var opts postOptions

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create a post with an image (requires sign-in)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.askApprove = !cmd.Flags().Changed("approve")

			var runErr error
			view := app.guard.Protect(guard.ViewFunc(func(ctx context.Context, username string) error {
				app.log.Debug("opening post dialog", "username", username)
				runErr = app.runPost(ctx, opts)
				return nil
			}), app)

			if err := view.Render(cmd.Context(), ""); err != nil {
				return err
			}
			if app.current == route.Login {
				return errReported
			}
			return runErr
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.content, "content", "c", "", "post text (at least 10 characters)")
	f.StringVarP(&opts.imagePath, "image", "i", "", "image file to attach")
	f.StringSliceVar(&opts.drop, "drop", nil, "files dropped onto the dialog; the first one is staged")
	f.BoolVar(&opts.approve, "approve", false, "approve the post")
	f.IntVar(&opts.retries, "retries", 0, "times to resubmit after a failed upload")
	return cmd
}

func (a *App) runPost(ctx context.Context, opts postOptions) error {
	m := postmodal.New(a.backend, func() {
		a.log.Debug("post dialog closed")
	}, postmodal.WithLogger(a.log))

	if err := m.Open(); err != nil {
		return err
	}

	if err := a.prompt.fill(&opts.content, "Content", false); err != nil {
		return err
	}
	if err := m.SetContent(opts.content); err != nil {
		return err
	}

	approve := opts.approve
	if opts.askApprove {
		ok, err := a.prompt.confirm("Approve this post?")
		if err != nil {
			return err
		}
		approve = ok
	}
	if err := m.SetApprove(approve); err != nil {
		return err
	}

	if err := a.stageImage(m, opts); err != nil {
		if errors.Is(err, postmodal.ErrNotImage) {
			a.notify.Error(m.Error())
			m.Close()
			return errReported
		}
		return err
	}

	for attempt := 0; ; attempt++ {
		outcome, err := m.Submit(ctx)
		switch outcome {
		case postmodal.Created:
			post, _ := m.LastPost()
			a.notify.Success("Post created")
			fmt.Fprintf(a.out, "id: %s\nimage: %s\n", post.ID, post.ImageName)
			return nil
		case postmodal.Invalid:
			if errors.Is(err, postmodal.ErrInvalidState) {
				return err
			}
			printFieldErrors(a.out, m.FieldErrors())
			m.Close()
			return errReported
		}

		a.notify.Error(m.Error())
		if attempt >= opts.retries {
			m.Close()
			return errReported
		}
		fmt.Fprintf(a.out, "Retrying in %s...\n", postmodal.ErrorDisplay)
		waitEditable(ctx, m)
	}
}

// stageImage loads dropped files first, then --image, then prompts.
func (a *App) stageImage(m *postmodal.Modal, opts postOptions) error {
	if len(opts.drop) > 0 {
		images := make([]model.Image, 0, len(opts.drop))
		for _, p := range opts.drop {
			img, err := loadImage(p)
			if err != nil {
				return err
			}
			images = append(images, img)
		}
		return m.Drop(images)
	}

	path := opts.imagePath
	if err := a.prompt.fill(&path, "Image file", false); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	img, err := loadImage(path)
	if err != nil {
		return err
	}
	return m.SetImage(img)
}

func loadImage(path string) (model.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Image{}, fmt.Errorf("read image: %w", err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = mt
	}

	return model.Image{Name: filepath.Base(path), MediaType: mediaType, Data: data}, nil
}

// waitEditable blocks until a failed submit's error window has passed.
func waitEditable(ctx context.Context, m *postmodal.Modal) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for m.State() == postmodal.Failed {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
