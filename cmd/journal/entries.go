package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/fetcher"
)

func addCmd(a *app) *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Write a new entry and get a reflection on it",
		Long: `Write a new entry. The text comes from the arguments, from stdin when
the only argument is "-", or from a web page given with --url or as the only
argument.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := entryText(cmd, args, pageURL)
			if err != nil {
				return err
			}

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}

			entry, err := s.Create(cmd.Context(), prompt)
			if err != nil {
				return fmt.Errorf("add entry: %w", err)
			}

			a.printer(cmd).Entry(entry)
			return nil
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "use the readable text of a web page as the entry")
	return cmd
}

// entryText picks the entry text: a page with --url or a lone URL argument,
// stdin for "-", the joined arguments otherwise.
func entryText(cmd *cobra.Command, args []string, pageURL string) (string, error) {
	switch {
	case pageURL != "":
		if len(args) > 0 {
			return "", fmt.Errorf("--url cannot be combined with text arguments")
		}
		return pageText(cmd, pageURL)
	case len(args) == 1 && fetcher.IsURL(args[0]):
		return pageText(cmd, args[0])
	case len(args) == 1 && args[0] == "-":
		return readAll(cmd.InOrStdin())
	case len(args) == 0:
		return "", domain.ErrEmptyPrompt
	default:
		return strings.Join(args, " "), nil
	}
}

func pageText(cmd *cobra.Command, pageURL string) (string, error) {
	text, err := fetcher.New(30*time.Second).Text(cmd.Context(), pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return text, nil
}

func editCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Rewrite an entry and regenerate its reflection",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok, err := a.resolve(cmd, args[0])
			if err != nil || !ok {
				return err
			}

			prompt, err := entryText(cmd, args[1:], "")
			if err != nil {
				return err
			}

			entry, err := a.store.Edit(cmd.Context(), id, prompt)
			if err != nil {
				return fmt.Errorf("edit entry: %w", err)
			}

			a.printer(cmd).Entry(entry)
			return nil
		},
	}
}

func rmCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok, err := a.resolve(cmd, args[0])
			if err != nil || !ok {
				return err
			}

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete entry %s? [y/N] ", id)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					a.printer(cmd).Notice("kept %s", id)
					return nil
				}
			}

			if a.store.Delete(id) {
				a.printer(cmd).Notice("deleted %s", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func pinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok, err := a.resolve(cmd, args[0])
			if err != nil || !ok {
				return err
			}

			entry, err := a.store.TogglePin(id)
			if err != nil {
				return err
			}

			state := "unpinned"
			if entry.IsPinned {
				state = "pinned"
			}
			a.printer(cmd).Notice("%s %s", state, id)
			return nil
		},
	}
}

func tagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove entry tags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <tag>",
		Short: "Tag an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok, err := a.resolve(cmd, args[0])
			if err != nil || !ok {
				return err
			}
			entry, err := a.store.AddTag(id, args[1])
			if err != nil {
				return err
			}
			a.printer(cmd).Tags(entry.Tags)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id> <tag>",
		Aliases: []string{"remove"},
		Short:   "Remove a tag from an entry",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok, err := a.resolve(cmd, args[0])
			if err != nil || !ok {
				return err
			}
			entry, err := a.store.RemoveTag(id, args[1])
			if err != nil {
				return err
			}
			a.printer(cmd).Tags(entry.Tags)
			return nil
		},
	})

	return cmd
}
