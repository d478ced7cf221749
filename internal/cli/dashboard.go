package cli

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/postdeck/postdeck-go/internal/route"
)

var avatarColors = []color.Attribute{
	color.BgRed,
	color.BgGreen,
	color.BgYellow,
	color.BgBlue,
	color.BgMagenta,
	color.BgCyan,
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the home page (requires sign-in)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Navigate(cmd.Context(), route.Dashboard)
			if app.current != route.Dashboard {
				return errReported
			}
			return nil
		},
	}
}

func (a *App) renderDashboard(_ context.Context, username string) error {
	fmt.Fprintln(a.out, color.New(color.Bold).Sprint("Welcome to the Home Page!"))
	fmt.Fprintf(a.out, "%s %s\n", avatar(username), username)
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Create a post: postdeck post --content <text> --image <file> --approve")
	return nil
}

// avatar renders the uppercased first letter on a color picked by that
// letter.
func avatar(username string) string {
	r, _ := utf8.DecodeRuneInString(username)
	if r == utf8.RuneError {
		r = '?'
	}
	r = unicode.ToUpper(r)
	bg := avatarColors[int(r)%len(avatarColors)]
	return color.New(bg, color.FgWhite, color.Bold).Sprint(" " + string(r) + " ")
}
