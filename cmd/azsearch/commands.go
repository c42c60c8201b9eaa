package main

import (
	"fmt"
	"strings"

	"azsearch/internal/domain"
	"azsearch/internal/iconcache"

	"github.com/spf13/cobra"
)

func newWorkItemsCmd(flags *globalFlags) *cobra.Command {
	var withIcons bool
	cmd := &cobra.Command{
		Use:     "workitems [text...]",
		Aliases: []string{"wi", "search"},
		Short:   "Search work items",
		Example: `  azsearch workitems login bug
  azsearch workitems @me #bug
  azsearch workitems 42`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer sess.Close()
			if err := sess.loadScope(cmd.Context()); err != nil {
				return err
			}

			text := strings.Join(args, " ")
			var items []domain.WorkItem
			if withIcons {
				items, err = sess.service.WorkItemsWithIcons(cmd.Context(), text)
			} else {
				items, err = sess.service.WorkItems(cmd.Context(), text)
			}
			if err != nil {
				return err
			}
			return writeWorkItems(cmd.OutOrStdout(), sess.settings.OutputFormat, items, sess.service.WorkItemURL)
		},
	}
	cmd.Flags().BoolVar(&withIcons, "icons", false, "Include the work item type icon as a data URI")
	return cmd
}

func newRecentCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List work items changed in the last 30 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer sess.Close()
			if err := sess.loadScope(cmd.Context()); err != nil {
				return err
			}

			items, err := sess.service.Recent(cmd.Context())
			if err != nil {
				return err
			}
			return writeWorkItems(cmd.OutOrStdout(), sess.settings.OutputFormat, items, sess.service.WorkItemURL)
		},
	}
}

func newQueriesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "queries [text...]",
		Aliases: []string{"q"},
		Short:   "Search saved queries of the selected project by name",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer sess.Close()
			if err := sess.loadScope(cmd.Context()); err != nil {
				return err
			}

			queries, err := sess.service.Queries(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeQueries(cmd.OutOrStdout(), sess.settings.OutputFormat, queries, sess.service.QueryURL)
		},
	}
}

func newProjectsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List team projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer sess.Close()

			projects, err := sess.service.LoadProjects(cmd.Context())
			if err != nil {
				return err
			}
			return writeProjects(cmd.OutOrStdout(), sess.settings.OutputFormat, projects, sess.service.SelectedProject().ID)
		},
	}
}

func newIconsCmd(flags *globalFlags) *cobra.Command {
	iconsCmd := &cobra.Command{
		Use:   "icons",
		Short: "Manage the work item type icon cache",
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Download the icons of the selected project again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer sess.Close()
			if err := sess.loadScope(cmd.Context()); err != nil {
				return err
			}

			project := sess.service.SelectedProject().Name
			if project == "" {
				return errNoProject
			}
			icons, err := sess.service.Icons().Refresh(cmd.Context(), project)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(icons))
			for _, name := range sortedKeys(icons) {
				keys = append(keys, iconcache.Key(project, name))
			}
			return writeIconKeys(cmd.OutOrStdout(), sess.settings.OutputFormat, keys)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached icon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.service.Icons().Clear(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Icon cache cleared.")
			return err
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached icon keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer sess.Close()

			keys, err := sess.store.Keys(cmd.Context())
			if err != nil {
				return err
			}
			return writeIconKeys(cmd.OutOrStdout(), sess.settings.OutputFormat, keys)
		},
	}

	iconsCmd.AddCommand(refreshCmd, clearCmd, listCmd)
	return iconsCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
