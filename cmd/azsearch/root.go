package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"azsearch/internal/config"
	"azsearch/internal/debug"
	"azsearch/internal/devops"
	"azsearch/internal/domain"
	appErrors "azsearch/internal/errors"
	"azsearch/internal/iconcache"
	"azsearch/internal/search"
	"azsearch/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	project    string
	output     string
	debug      bool
}

// session is everything a command needs once configuration is resolved.
type session struct {
	settings config.Settings
	client   devops.Client
	store    *iconcache.SQLiteStore
	service  *search.Service
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			debug.Logf("close icon cache: %v", err)
		}
	}
	debug.Close()
}

// Overridden in tests.
var (
	newClient = func(s config.Settings) devops.Client {
		return devops.NewClient(s.Domain, s.User, s.Token, devops.WithTimeout(s.HTTPTimeout))
	}
	newProgram programFactory = func(app *ui.App) programRunner {
		return tea.NewProgram(app, tea.WithAltScreen())
	}
)

func newRootCmd(out io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "azsearch",
		Short: "Search Azure DevOps work items and saved queries",
		Long: `azsearch is a command palette for Azure DevOps.

Run without arguments to open the interactive palette. Search text supports
@me or @name for the assignee, #type for the work item type, and a bare
number to jump to a work item by id.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer sess.Close()
			return runPalette(sess)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Project config file (default: discovered .azsearch/config.yaml)")
	pf.StringVarP(&flags.project, "project", "p", "", "Team project name (overrides "+config.KeyProject+")")
	pf.StringVarP(&flags.output, "output", "o", "", "Output format: table, json or yaml")
	pf.BoolVar(&flags.debug, "debug", false, "Write a debug log to ~/.azsearch/debug.log")

	root.AddCommand(
		newWorkItemsCmd(flags),
		newQueriesCmd(flags),
		newRecentCmd(flags),
		newProjectsCmd(flags),
		newIconsCmd(flags),
		newVersionCmd(),
	)
	return root
}

// openSession resolves configuration and wires the client, icon cache and
// search service.
func openSession(ctx context.Context, flags *globalFlags) (*session, error) {
	var opts []config.Option
	if flags.configPath != "" {
		opts = append(opts, config.WithProjectConfig(flags.configPath))
	}
	if err := config.Initialize(opts...); err != nil {
		return nil, appErrors.New(appErrors.CodeConfigurationError, err.Error(), err)
	}

	overrides := map[string]any{}
	if flags.project != "" {
		overrides[config.KeyProject] = flags.project
	}
	if flags.output != "" {
		overrides[config.KeyOutputFormat] = flags.output
	}
	if err := config.ApplyOverrides(overrides); err != nil {
		return nil, fmt.Errorf("apply flags: %w", err)
	}

	if err := debug.Init(flags.debug); err != nil {
		return nil, fmt.Errorf("init debug log: %w", err)
	}

	settings := config.Load()
	if err := settings.Validate(); err != nil {
		debug.Close()
		return nil, err
	}
	debug.Logf("session: domain=%s project=%q top=%d", settings.Domain, settings.Project, settings.SearchTop)

	client := newClient(settings)
	store, err := iconcache.OpenSQLiteStore(ctx, settings.CachePath)
	if err != nil {
		debug.Close()
		return nil, fmt.Errorf("open icon cache: %w", err)
	}
	service := search.NewService(client, iconcache.NewResolver(client, store), search.Options{
		Domain:         settings.Domain,
		DefaultProject: settings.Project,
		Top:            settings.SearchTop,
	})

	return &session{
		settings: settings,
		client:   client,
		store:    store,
		service:  service,
	}, nil
}

// loadScope fetches the projects and checks that a configured project exists.
func (s *session) loadScope(ctx context.Context) error {
	if _, err := s.service.LoadProjects(ctx); err != nil {
		return err
	}
	if s.settings.Project != "" && s.service.SelectedProject().ID == "" {
		return appErrors.New(appErrors.CodeInvalidProject,
			fmt.Sprintf("project %q not found", s.settings.Project), nil)
	}
	return nil
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

func runPalette(sess *session) error {
	app, err := ui.NewApp(ui.Config{
		Service:       sess.service,
		Debounce:      sess.settings.SearchDebounce,
		SolidIcons:    sess.settings.IconStyle == config.IconStyleSolid,
		MarkdownStyle: sess.settings.MarkdownStyle,
		Theme:         sess.settings.Theme,
		Version:       Version,
		OnProjectSelected: func(p domain.Project) error {
			return config.SaveProject(p.Name)
		},
	})
	if err != nil {
		return fmt.Errorf("initialize UI: %w", err)
	}
	prog := newProgram(app)
	if prog == nil {
		return errors.New("program is nil")
	}
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}

// formatError renders err the way the palette's toast does.
func formatError(err error) string {
	return appErrors.Title(err) + ": " + appErrors.Message(err)
}
