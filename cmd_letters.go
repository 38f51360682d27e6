package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"choopy/letters"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func (c *cli) lettersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "letters",
		Aliases: []string{"mail"},
		Short:   "Read and write letters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.listLetters(cmd)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List letters, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.listLetters(cmd)
			},
		},
		&cobra.Command{
			Use:   "show [id]",
			Short: "Read a letter and mark it read",
			Long:  "Read a letter by id or id prefix. Without an id the newest unread letter is shown.",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.showLetter(cmd, args)
			},
		},
		c.newLetterCmd(),
	)
	return cmd
}

func (c *cli) loadLetters() ([]letters.Letter, error) {
	all, err := letters.LoadAll(c.cfg.Letters.Dir, c.log)
	if errors.Is(err, letters.ErrNoIndex) {
		return nil, nil
	}
	return all, err
}

func (c *cli) listLetters(cmd *cobra.Command) error {
	all, err := c.loadLetters()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(all) == 0 {
		Subtle.Fprintln(w, "no letters yet")
		return nil
	}

	rows := make([][]string, 0, len(all))
	for _, l := range all {
		mark := " "
		if l.Unread() {
			mark = "●"
		}
		rows = append(rows, []string{mark, shortID(l.ID), l.Timestamp().Local().Format("2006-01-02 15:04"), l.Title})
	}
	Table(w, []string{"", "ID", "DATE", "TITLE"}, rows)

	fmt.Fprintln(w)
	if n := letters.UnreadCount(all); n > 0 {
		Warn.Fprintf(w, "%d unread\n", n)
	} else {
		Good.Fprintln(w, "all read")
	}
	return nil
}

func (c *cli) showLetter(cmd *cobra.Command, args []string) error {
	all, err := c.loadLetters()
	if err != nil {
		return err
	}

	var (
		l  letters.Letter
		ok bool
	)
	if len(args) == 0 {
		l, ok = letters.FirstUnread(all)
		if !ok {
			Subtle.Fprintln(cmd.OutOrStdout(), "no unread letters")
			return nil
		}
	} else if l, err = findLetter(all, args[0]); err != nil {
		return err
	}

	if err := renderLetter(cmd.OutOrStdout(), l); err != nil {
		return err
	}

	if !l.Unread() {
		return nil
	}
	read, _ := letters.Find(letters.MarkRead(all, l.ID), l.ID)
	return letters.Update(c.cfg.Letters.Dir, read)
}

// findLetter matches a full id or a unique id prefix.
func findLetter(all []letters.Letter, id string) (letters.Letter, error) {
	if l, ok := letters.Find(all, id); ok {
		return l, nil
	}
	var matches []letters.Letter
	for _, l := range all {
		if strings.HasPrefix(l.ID, id) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return letters.Letter{}, fmt.Errorf("no letter %q", id)
	case 1:
		return matches[0], nil
	default:
		return letters.Letter{}, fmt.Errorf("letter id %q is ambiguous (%d matches)", id, len(matches))
	}
}

func renderLetter(w io.Writer, l letters.Letter) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	body := "# " + l.Title + "\n\n*" + l.Timestamp().Local().Format("Monday, 2 January 2006") + "*\n\n" + l.Content
	out, err := r.Render(body)
	if err != nil {
		return fmt.Errorf("failed to render letter: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func (c *cli) newLetterCmd() *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Write a letter",
		Long:  "Write a letter. The body comes from --content, or from stdin when it is not given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return errors.New("a letter needs a --title")
			}
			if content == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read letter body: %w", err)
				}
				content = string(data)
			}

			l := letters.New(title, strings.TrimSpace(content), time.Now())
			if err := letters.Save(c.cfg.Letters.Dir, l); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), l.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "letter title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "letter body in markdown")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
