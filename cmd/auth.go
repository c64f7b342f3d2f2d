package cmd

import (
	"errors"
	"fmt"

	"github.com/iksnae/notium/internal"
	"github.com/iksnae/notium/internal/tui"
	"github.com/spf13/cobra"
)

var (
	authUsername string
	authEmail    string
	authPassword string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the credential",
	Long: `Sign in to the Notium service. The returned token is stored in the
local credential database and sent with every following request.

Without --username and --password the credentials are prompted for.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if res, err := app.enter(internal.LoginPath, internal.ViewLogin); err != nil {
			if res.View == internal.ViewNotes {
				internal.PrintInfo("Already signed in")
				return nil
			}
			return err
		}

		creds := internal.LoginCredentials{Username: authUsername, Password: authPassword}
		if creds.Username == "" || creds.Password == "" {
			if !tui.ShouldPrompt() {
				return errors.New("--username and --password are required when not running in a terminal")
			}
			if creds, err = tui.PromptLogin(authUsername); err != nil {
				return err
			}
		}

		ctx, cancel := app.requestContext()
		defer cancel()
		if err := internal.ShowProgress(ctx, "Signing in", func() error {
			return app.session.Login(ctx, creds)
		}); err != nil {
			return err
		}

		app.router.Enter(app.nav, internal.NotesPath, app.session.State())
		internal.PrintSuccess(fmt.Sprintf("Signed in as %s", creds.Username))
		return nil
	},
}

// signUpCmd represents the sign-up command
var signUpCmd = &cobra.Command{
	Use:     "sign-up",
	Aliases: []string{"signup", "register"},
	Short:   "Create an account and sign in",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if res, err := app.enter(internal.SignUpPath, internal.ViewSignUp); err != nil {
			if res.View == internal.ViewNotes {
				internal.PrintInfo("Already signed in")
				return nil
			}
			return err
		}

		payload := internal.RegisterPayload{Username: authUsername, Email: authEmail, Password: authPassword}
		if payload.Username == "" || payload.Email == "" || payload.Password == "" {
			if !tui.ShouldPrompt() {
				return errors.New("--username, --email and --password are required when not running in a terminal")
			}
			if payload, err = tui.PromptSignUp(); err != nil {
				return err
			}
		}

		ctx, cancel := app.requestContext()
		defer cancel()
		if err := internal.ShowProgress(ctx, "Creating account", func() error {
			return app.session.Register(ctx, payload)
		}); err != nil {
			return err
		}

		app.router.Enter(app.nav, internal.NotesPath, app.session.State())
		internal.PrintSuccess(fmt.Sprintf("Account created, signed in as %s", payload.Username))
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credential",
	Long:  `Remove the stored token. The server is not contacted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		wasSignedIn := app.session.Authenticated()
		if err := app.session.Logout(); err != nil {
			return fmt.Errorf("signed out, but the stored credential could not be removed: %w", err)
		}
		app.router.Enter(app.nav, internal.LoginPath, app.session.State())

		if wasSignedIn {
			internal.PrintSuccess("Signed out")
		} else {
			internal.PrintInfo("Not signed in")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, signUpCmd, logoutCmd)

	loginCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password")

	signUpCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
	signUpCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Email address")
	signUpCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password")
}
