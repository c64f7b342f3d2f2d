package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/notium/internal"
	"github.com/spf13/cobra"
)

var (
	listSearch   string
	listTag      string
	listStarred  bool
	listShowTags bool
	recentLimit  int
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	starStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

// listFilter builds the notes filter from the list/export flags
func listFilter(search, tag string, starred bool) internal.Filter {
	f := internal.Filter{Search: strings.TrimSpace(search), Tag: strings.TrimSpace(tag)}
	if starred {
		f = f.ToggleStarred()
	}
	return f
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"notes", "ls"},
	Short:   "List notes",
	Long: `List your notes, newest first.

Filters combine: --search matches title or content, --tag keeps notes
carrying the tag, --starred keeps starred notes only. --tags prints the
tag names in use instead of the notes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if _, err := app.enter(internal.NotesPath, internal.ViewNotes); err != nil {
			return err
		}

		ctx, cancel := app.requestContext()
		defer cancel()

		if listShowTags {
			tags, err := app.queries.AllTags(ctx)
			if err != nil {
				return fmt.Errorf("failed to load tags: %w", err)
			}
			displayTags(cmd.OutOrStdout(), tags)
			return nil
		}

		filter := listFilter(listSearch, listTag, listStarred)
		notes, err := app.queries.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to load notes: %w", err)
		}
		displayNotes(cmd.OutOrStdout(), notes, filter)
		return nil
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently updated notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if _, err := app.enter(internal.NotesPath, internal.ViewNotes); err != nil {
			return err
		}

		ctx, cancel := app.requestContext()
		defer cancel()
		notes, err := app.queries.Recent(ctx, recentLimit)
		if err != nil {
			return fmt.Errorf("failed to load recent notes: %w", err)
		}
		displayNotes(cmd.OutOrStdout(), notes, internal.Filter{})
		return nil
	},
}

func displayNotes(w io.Writer, notes []internal.Note, filter internal.Filter) {
	if len(notes) == 0 {
		if filter.Active() {
			fmt.Fprintln(w, headerStyle.Render("No notes match these filters"))
			fmt.Fprintln(w, idStyle.Render("Tip: drop --search, --tag or --starred to see every note"))
		} else {
			fmt.Fprintln(w, headerStyle.Render("No notes yet"))
			fmt.Fprintln(w, idStyle.Render("Tip: create one with `notium new`"))
		}
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Found %d note(s)", len(notes))))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, titleStyle.Render("ID")+"\t"+titleStyle.Render("")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Tags")+"\t"+titleStyle.Render("Updated")+"\t")

	for _, n := range notes {
		star := " "
		if n.Starred {
			star = starStyle.Render("★")
		}

		title := n.Title
		if title == "" {
			title = "Untitled"
		}
		// Truncate long titles but keep them readable
		if len([]rune(title)) > 50 {
			title = string([]rune(title)[:47]) + "..."
		}

		tags := dateStyle.Render("—")
		if names := n.TagNames(); len(names) > 0 {
			tags = tagStyle.Render(strings.Join(names, ", "))
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(strconv.FormatInt(n.ID, 10)),
			star,
			title,
			tags,
			dateStyle.Render(internal.FormatNoteDate(n.UpdatedAt)),
		)
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, idStyle.Render("Tip: Use the ID with `notium show <id>`"))
}

func displayTags(w io.Writer, tags []string) {
	if len(tags) == 0 {
		fmt.Fprintln(w, headerStyle.Render("No tags in use"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d tag(s)", len(tags))))
	for _, t := range tags {
		fmt.Fprintf(w, "  %s\n", tagStyle.Render(t))
	}
}

func init() {
	rootCmd.AddCommand(listCmd, recentCmd)
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only notes whose title or content contains the text")
	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "Only notes with the tag")
	listCmd.Flags().BoolVar(&listStarred, "starred", false, "Only starred notes")
	listCmd.Flags().BoolVar(&listShowTags, "tags", false, "Print the tags in use instead of notes")
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", internal.DefaultRecentLimit, "Number of notes to show")
}
