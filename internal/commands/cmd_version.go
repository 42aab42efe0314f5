package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/ticketlog/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type VersionCmd struct {
	version string

	// flags
	jsonOutput bool
}

// NewVersionCmd creates a new version command reporting version.
func NewVersionCmd(version string) *VersionCmd {
	return &VersionCmd{version: version}
}

// Register adds the version command to the application
func (cmd *VersionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "version",
		Usage:     "Show the ticketlog version",
		UsageText: "tl version [--json]",
		Flags:     []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		Action:    cmd.run,
	})

	return app
}

func (cmd *VersionCmd) run(_ context.Context, c *cli.Command) error {
	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, map[string]string{"version": cmd.version})
	}

	_, _ = fmt.Fprintf(out, "ticketlog %s\n", cmd.version)
	return nil
}
