package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/printer"
)

func listCmd(a *app) *cobra.Command {
	var (
		search string
		tags   []string
		view   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, pinned first then newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := printer.ParseView(view)
			if err != nil {
				return err
			}

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}

			entries := s.List(domain.Filter{Search: search, Tags: tags})
			a.printer(cmd).Entries(v, entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only entries whose text contains this (case-insensitive)")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "only entries carrying this tag (repeatable)")
	cmd.Flags().StringVar(&view, "view", string(printer.ViewList), "layout: list, grid or calendar")
	return cmd
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an entry and its reflection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok, err := a.resolve(cmd, args[0])
			if err != nil || !ok {
				return err
			}

			entry, err := a.store.Get(id)
			if err != nil {
				return err
			}
			a.printer(cmd).Entry(entry)
			return nil
		},
	}
}

func tagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List all tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			a.printer(cmd).Tags(s.AllTags())
			return nil
		},
	}
}

func themeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.openSettings(cmd)
			if err != nil {
				return err
			}

			dark := settings.DarkMode()
			if len(args) == 1 {
				switch args[0] {
				case "dark":
					dark = true
				case "light":
					dark = false
				case "toggle":
					dark = !dark
				default:
					return fmt.Errorf("unknown theme %q (want dark, light or toggle)", args[0])
				}
				if err := settings.SetDarkMode(dark); err != nil {
					return err
				}
			}

			name := "light"
			if dark {
				name = "dark"
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}
