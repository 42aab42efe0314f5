package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ticketlog/internal/commands"
	"github.com/colonyops/ticketlog/internal/core/config"
	"github.com/colonyops/ticketlog/internal/core/logging"
	"github.com/colonyops/ticketlog/internal/core/styles"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/colonyops/ticketlog/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func resolveProject(dir string) (*config.Project, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}
	return config.ResolveProject(dir)
}

// defaultProject is used when the config is broken and the command can
// cope with it.
func defaultProject(dir string) *config.Project {
	cfg := config.DefaultConfig()
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		root = dir
	}
	return &config.Project{Config: &cfg, Root: root}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var (
		logCloser func()
		tlApp     = &tracker.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:                  "tl",
		Usage:                 "Track tasks in an append-only log",
		UsageText:             "tl [global options] command [command options]",
		Description:           commands.RootDescription,
		Version:               build(),
		EnableShellCompletion: true,
		Flags:                 commands.GlobalFlags(flags),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			command := c.Args().First()
			ctx = logging.WithCommand(ctx, command)

			project, projectErr := resolveProject(flags.Dir)
			if projectErr != nil {
				if !commands.ToleratesBrokenConfig(command) {
					return ctx, fmt.Errorf("load config: %w", projectErr)
				}
				log.Warn().Ctx(ctx).Err(projectErr).Msg("using default config")
				project = defaultProject(flags.Dir)
			}

			if flags.Strict {
				project.Config.Strict = true
			}

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(project.Config.Theme)
			styles.SetTheme(palette)

			flags.Notices = commands.NewNotices(os.Stderr, project.Config.DeadHistoryThreshold)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*tlApp = *tracker.NewApp(project, tracker.AppOptions{
				ProjectErr: projectErr,
				Observe:    flags.Notices.Observe,
			}, log.Logger)

			log.Debug().Ctx(ctx).
				Str("root", project.Root).
				Str("log", project.LogPath()).
				Msg("resolved project")

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.RegisterAll(app, flags, tlApp, build())

	exitCode := 0
	if runErr := app.Run(ctx, os.Args); runErr != nil {
		if msg := runErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, styles.TextErrorStyle.Render("Error: "+msg))
		}
		exitCode = 1
	}

	stop()
	os.Exit(exitCode)
}
