package cmd

import (
	"errors"

	"github.com/iksnae/notium/internal"
	"github.com/iksnae/notium/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui [path]",
	Short: "Open the interactive client",
	Long: `Open the full-screen client. The optional path picks the first view,
e.g. /notes, /notes/new or /notes/42; signed-out users start at the sign-in form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !internal.IsTerminal() {
			return errors.New("the interactive client needs a terminal; use the list, show and new commands instead")
		}

		start := "/"
		if len(args) == 1 {
			start = args[0]
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		// the UI owns the terminal; keep log lines off it
		if !verbose {
			internal.SetLogLevel(internal.LogLevelError)
		}
		return tui.Run(app.tuiDeps(), start)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
