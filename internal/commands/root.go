package commands

import (
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/urfave/cli/v3"
)

// RootDescription is the long help text of the tl root command.
const RootDescription = `ticketlog tracks tasks in an append-only JSON Lines file that lives in
your repository. There is no database and no server: every command reads the
log, and every change appends the full new state of a task.

Run 'tl init' to create a configuration file, then 'tl create <title>' to add
your first task. 'tl ready' lists what can be worked on now.`

// tolerantCommands still run when the project config cannot be loaded:
// doctor reports the problem, init can overwrite the file, and help and
// version never read it.
var tolerantCommands = map[string]bool{
	"":        true,
	"doctor":  true,
	"init":    true,
	"help":    true,
	"h":       true,
	"version": true,
}

// ToleratesBrokenConfig reports whether the named top-level command runs with
// default settings when the project config is invalid.
func ToleratesBrokenConfig(command string) bool {
	return tolerantCommands[command]
}

// GlobalFlags returns the flags shared by every command, bound to flags.
func GlobalFlags(flags *Flags) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error, fatal, panic)",
			Sources:     cli.EnvVars("TL_LOG_LEVEL"),
			Value:       "warn",
			Destination: &flags.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "path to log file (defaults to stderr)",
			Sources:     cli.EnvVars("TL_LOG_FILE"),
			Destination: &flags.LogFile,
		},
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"C"},
			Usage:       "run as if started in this directory",
			Sources:     cli.EnvVars("TL_DIR"),
			Destination: &flags.Dir,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "fail on unreadable log lines instead of skipping them",
			Destination: &flags.Strict,
		},
	}
}

// RegisterAll adds every tl command to root.
func RegisterAll(root *cli.Command, flags *Flags, app *tracker.App, version string) *cli.Command {
	root = NewCreateCmd(flags, app).Register(root)
	root = NewListCmd(flags, app).Register(root)
	root = NewShowCmd(flags, app).Register(root)
	root = NewUpdateCmd(flags, app).Register(root)
	root = NewCloseCmd(flags, app).Register(root)
	root = NewCancelCmd(flags, app).Register(root)
	root = NewReadyCmd(flags, app).Register(root)
	root = NewStartCmd(flags, app).Register(root)
	root = NewDepCmd(flags, app).Register(root)
	root = NewCleanCmd(flags, app).Register(root)
	root = NewImportCmd(flags, app).Register(root)
	root = NewInitCmd(flags).Register(root)
	root = NewDoctorCmd(flags, app).Register(root)
	root = NewVersionCmd(version).Register(root)
	return root
}
