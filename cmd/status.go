package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang-jwt/jwt/v5"
	"github.com/iksnae/notium/internal"
	"github.com/spf13/cobra"
)

var (
	statusVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// tokenInfo is what the client can tell about a stored token without the signing key
type tokenInfo struct {
	Subject   string
	ExpiresAt time.Time
	Expired   bool
}

// inspectToken decodes the token claims without verifying the signature.
// It reports false for tokens that are not JWTs.
func inspectToken(raw string, now time.Time) (*tokenInfo, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, false
	}
	info := &tokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
		info.Expired = now.After(info.ExpiresAt)
	}
	return info, true
}

// checkAPI reports whether the API answered. Signed in, it reads the latest note;
// otherwise any HTTP status from the API root counts as reachable.
func checkAPI(app *clientApp) error {
	ctx, cancel := app.requestContext()
	defer cancel()

	if app.session.Authenticated() {
		_, err := app.queries.Recent(ctx, 1)
		return err
	}

	err := app.client.Do(ctx, http.MethodGet, "/", nil, nil, nil)
	var apiErr *internal.APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return nil
	}
	return err
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"healthcheck"},
	Short:   "Check configuration, stored credential and API access",
	Long: `Check the health of the client by verifying:
  • Configuration loading
  • Credential store access
  • Stored token presence and claims
  • API reachability

This command is useful for debugging sign-in problems.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, sectionStyle.Render("Notium Status"))
		fmt.Fprintln(w)

		// Step 1: configuration and credential store
		fmt.Fprintln(w, infoStyle.Render("Step 1: Loading configuration..."))
		app, err := openApp()
		if err != nil {
			fmt.Fprintln(w, errorStyle.Render("✗ Failed to load configuration:"), err)
			return err
		}
		defer app.Close()
		fmt.Fprintln(w, successStyle.Render("✓ Configuration loaded"))
		if statusVerbose {
			fmt.Fprintf(w, "   Config file: %s\n", app.cfg.File)
			fmt.Fprintf(w, "   API: %s (timeout %s)\n", app.cfg.API.BaseURL, app.cfg.API.Timeout)
			fmt.Fprintf(w, "   Query: retry %d, stale after %s\n", app.cfg.Query.Retry, app.cfg.Query.StaleTime)
			if s, ok := app.tokens.(*internal.Storage); ok {
				fmt.Fprintf(w, "   Credential store: %s\n", s.Path())
			} else {
				fmt.Fprintln(w, "   Credential store: memory")
			}
		}
		fmt.Fprintln(w)

		// Step 2: stored token
		fmt.Fprintln(w, infoStyle.Render("Step 2: Checking stored credential..."))
		token, err := app.tokens.Token()
		if err != nil {
			fmt.Fprintln(w, errorStyle.Render("✗ Failed to read credential:"), err)
			return err
		}
		reportToken(w, token)
		fmt.Fprintln(w)

		// Step 3: API
		fmt.Fprintln(w, infoStyle.Render("Step 3: Contacting API..."))
		checkErr := checkAPI(app)
		switch {
		case checkErr == nil:
			fmt.Fprintln(w, successStyle.Render("✓ API reachable at "+app.client.BaseURL()))
		case internal.IsUnauthorized(checkErr):
			fmt.Fprintln(w, warningStyle.Render("⚠ API rejected the stored credential; it has been cleared"))
		default:
			fmt.Fprintln(w, errorStyle.Render("✗ API unreachable:"), internal.ErrorMessage(checkErr))
		}
		fmt.Fprintln(w)

		// Summary
		fmt.Fprintln(w, sectionStyle.Render("Summary"))
		fmt.Fprintln(w)
		switch {
		case checkErr != nil && !internal.IsUnauthorized(checkErr):
			fmt.Fprintln(w, errorStyle.Render("✗ Status check failed"))
			return fmt.Errorf("status check failed: %w", checkErr)
		case app.session.Authenticated():
			fmt.Fprintln(w, successStyle.Render("✓ Signed in and connected"))
		default:
			fmt.Fprintln(w, warningStyle.Render("⚠ Connected but not signed in"))
			fmt.Fprintln(w, "   Run 'notium login' to sign in")
		}
		return nil
	},
}

func reportToken(w io.Writer, token string) {
	if token == "" {
		fmt.Fprintln(w, warningStyle.Render("⚠ No credential stored"))
		return
	}
	fmt.Fprintln(w, successStyle.Render("✓ Credential stored"))

	info, ok := inspectToken(token, time.Now())
	if !ok {
		if statusVerbose {
			fmt.Fprintln(w, "   Token is not a JWT; claims unavailable")
		}
		return
	}
	if info.Subject != "" {
		fmt.Fprintf(w, "   Subject: %s\n", info.Subject)
	}
	switch {
	case info.ExpiresAt.IsZero():
		fmt.Fprintln(w, "   Expires: never")
	case info.Expired:
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("⚠ Expired %s", info.ExpiresAt.Local().Format(time.RFC822))))
	default:
		fmt.Fprintf(w, "   Expires: %s\n", info.ExpiresAt.Local().Format(time.RFC822))
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusVerbose, "details", "d", false, "Show detailed diagnostic information")
}
