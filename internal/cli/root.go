package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/postdeck/postdeck-go/internal/config"
	"github.com/postdeck/postdeck-go/internal/validate"
)

// Execute runs the postdeck command line and returns the process exit code.
func Execute(ctx context.Context) int {
	app := &App{}
	root := newRootCmd(app, config.LoadClient(), nil)
	root.SetIn(os.Stdin)
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	err := root.ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "postdeck: close:", cerr)
	}

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "postdeck:", err)
		}
		return 1
	}
	return 0
}

// newRootCmd builds the command tree around app. A non-nil b is used in
// place of the HTTP backend.
func newRootCmd(app *App, cfg config.ClientConfig, b backend) *cobra.Command {
	root := &cobra.Command{
		Use:           "postdeck [command] [flags]",
		Short:         "postdeck: sign in and share posts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), b)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "backend base URL")
	flags.StringVar(&cfg.StoreDriver, "store-driver", cfg.StoreDriver, "session store driver (file|sqlite)")
	flags.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "session store location (default: user config dir)")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file path")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "also log to stderr")

	root.AddCommand(
		newSignupCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newDashboardCmd(app),
		newPostCmd(app),
	)
	return root
}

func printFieldErrors(w io.Writer, fe validate.FieldErrors) {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, fe[f])
	}
}
