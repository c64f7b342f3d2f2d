package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/notium/internal"
	"github.com/iksnae/notium/internal/tui"
	"github.com/spf13/cobra"
)

var (
	noteTitle   string
	noteContent string
	noteTags    string
	deleteYes   bool
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			PaddingLeft(2)
)

var showCmd = &cobra.Command{
	Use:   "show <note-id>",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		id, err := app.enterNote(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := app.requestContext()
		defer cancel()
		note, err := app.queries.Get(ctx, id)
		if err != nil {
			if internal.IsNotFound(err) {
				return fmt.Errorf("%w: %d (use 'notium list' to see available notes)", internal.ErrNoteNotFound, id)
			}
			return err
		}
		displayNote(cmd.OutOrStdout(), note)
		return nil
	},
}

func displayNote(w io.Writer, n *internal.Note) {
	title := titleStyle.Render(n.Title)
	if n.Starred {
		title = starStyle.Render("★ ") + title
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, idStyle.Render(fmt.Sprintf("#%d", n.ID)))
	fmt.Fprintln(w)

	if names := n.TagNames(); len(names) > 0 {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Tags:"), tagStyle.Render(strings.Join(names, ", ")))
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Created:"), dateStyle.Render(internal.FormatNoteDate(n.CreatedAt)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Updated:"), dateStyle.Render(internal.FormatNoteDate(n.UpdatedAt)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, contentStyle.Render(n.Content))
}

// draftFromFlags applies the flags the user set on top of d
func draftFromFlags(cmd *cobra.Command, d internal.Draft) (internal.Draft, bool) {
	changed := false
	if cmd.Flags().Changed("title") {
		d.Title, changed = noteTitle, true
	}
	if cmd.Flags().Changed("content") {
		d.Content, changed = noteContent, true
	}
	if cmd.Flags().Changed("tags") {
		d.Tags, changed = noteTags, true
	}
	return d, changed
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note",
	Long: `Create a note. Without --title and --content the fields are prompted for.
Tags are comma separated, e.g. --tags "work, ideas".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if _, err := app.enter(internal.NewNotePath, internal.ViewEditor); err != nil {
			return err
		}

		draft, changed := draftFromFlags(cmd, internal.Draft{})
		if !changed {
			if !tui.ShouldPrompt() {
				return errors.New("--title and --content are required when not running in a terminal")
			}
			if draft, err = tui.PromptDraft(draft); err != nil {
				return err
			}
		}
		if err := draft.Validate(); err != nil {
			return err
		}

		ctx, cancel := app.requestContext()
		defer cancel()
		note, err := app.queries.Create(ctx, draft.NoteIn())
		if err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}
		internal.PrintSuccess(fmt.Sprintf("Created note %d: %s", note.ID, note.Title))
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <note-id>",
	Short: "Edit a note",
	Long: `Edit a note. Fields given as flags replace the stored values; without
flags the note is opened in a form prefilled with its current content.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		id, err := app.enterNote(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := app.requestContext()
		defer cancel()
		note, err := app.queries.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load note %d: %w", id, err)
		}

		draft, changed := draftFromFlags(cmd, internal.DraftFromNote(note))
		if !changed {
			if !tui.ShouldPrompt() {
				return errors.New("nothing to change: pass --title, --content or --tags")
			}
			if draft, err = tui.PromptDraft(draft); err != nil {
				return err
			}
		}
		if err := draft.Validate(); err != nil {
			return err
		}
		if draft == internal.DraftFromNote(note) {
			internal.PrintWarning(fmt.Sprintf("Note %d unchanged", id))
			return nil
		}

		updated, err := app.queries.Update(ctx, id, internal.FullUpdate(draft.NoteIn()))
		if err != nil {
			return fmt.Errorf("failed to update note %d: %w", id, err)
		}
		internal.PrintSuccess(fmt.Sprintf("Saved note %d: %s", updated.ID, updated.Title))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <note-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		id, err := app.enterNote(args[0])
		if err != nil {
			return err
		}

		if !deleteYes {
			if !tui.ShouldPrompt() {
				return errors.New("refusing to delete without confirmation: pass --yes")
			}
			ok, err := tui.PromptConfirm(fmt.Sprintf("Delete note %d?", id), false)
			if err != nil {
				return err
			}
			if !ok {
				internal.PrintInfo("Cancelled")
				return nil
			}
		}

		ctx, cancel := app.requestContext()
		defer cancel()
		if err := app.queries.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete note %d: %w", id, err)
		}
		app.router.Enter(app.nav, internal.NotesPath, app.session.State())
		internal.PrintSuccess(fmt.Sprintf("Deleted note %d", id))
		return nil
	},
}

var starCmd = &cobra.Command{
	Use:   "star <note-id>",
	Short: "Toggle a note's star",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		if _, err := app.enter(internal.NotesPath, internal.ViewNotes); err != nil {
			return err
		}

		ctx, cancel := app.requestContext()
		defer cancel()
		note, err := app.queries.ToggleStar(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to star note %d: %w", id, err)
		}
		if note.Starred {
			internal.PrintSuccess(fmt.Sprintf("Starred note %d: %s", note.ID, note.Title))
		} else {
			internal.PrintSuccess(fmt.Sprintf("Unstarred note %d: %s", note.ID, note.Title))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd, newCmd, editCmd, deleteCmd, starCmd)

	for _, c := range []*cobra.Command{newCmd, editCmd} {
		c.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
		c.Flags().StringVarP(&noteContent, "content", "c", "", "Note content")
		c.Flags().StringVar(&noteTags, "tags", "", "Comma separated tags")
	}
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}
