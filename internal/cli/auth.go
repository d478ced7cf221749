package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postdeck/postdeck-go/internal/authflow"
	"github.com/postdeck/postdeck-go/internal/model"
)

const (
	signupHint = "Don't have an account? Sign up now: postdeck signup"
	loginHint  = "Already have an account? Sign in: postdeck login"
)

func newSignupCmd(app *App) *cobra.Command {
	var in model.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := app.prompt
			for _, f := range []struct {
				dst    *string
				label  string
				secret bool
			}{
				{&in.Email, "Email", false},
				{&in.Username, "Username", false},
				{&in.Password, "Password", true},
				{&in.ConfirmPassword, "Confirm Password", true},
			} {
				if err := p.fill(f.dst, f.label, f.secret); err != nil {
					return err
				}
			}

			res := authflow.NewSignup(app.backend, app.notify, app.log).Submit(cmd.Context(), in)
			if res.Outcome == authflow.Invalid {
				printFieldErrors(app.out, res.FieldErrors)
			}
			fmt.Fprintln(app.out, loginHint)

			if res.Outcome != authflow.Succeeded {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "username")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm-password", "", "password again (prompted when omitted)")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var in model.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and open the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.prompt.fill(&in.Username, "Username", false); err != nil {
				return err
			}
			if err := app.prompt.fill(&in.Password, "Password", true); err != nil {
				return err
			}

			res := authflow.NewLogin(app.backend, app.session, app.notify, app, app.log).Submit(cmd.Context(), in)
			if res.Outcome == authflow.Succeeded {
				return nil
			}
			if res.Outcome == authflow.Invalid {
				printFieldErrors(app.out, res.FieldErrors)
			}
			fmt.Fprintln(app.out, signupHint)
			return errReported
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "username")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the remembered user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.session.Logout(cmd.Context())
			app.notify.Success("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := app.guard.Check(cmd.Context())
			if !d.Allow {
				fmt.Fprintln(app.out, "Not signed in")
				return errReported
			}
			fmt.Fprintln(app.out, d.Username)
			return nil
		},
	}
}
