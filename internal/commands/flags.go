package commands

import (
	"strings"

	"github.com/urfave/cli/v3"
)

type Flags struct {
	LogLevel string
	LogFile  string
	Dir      string
	Strict   bool

	// Notices reports log warnings on stderr. It is set up in the Before
	// hook and fed every snapshot the tracker loads.
	Notices *Notices
}

// jsonFlag is the -j/--json flag shared by every command.
func jsonFlag(dest *bool) *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "json",
		Aliases:     []string{"j"},
		Usage:       "output as JSON",
		Destination: dest,
	}
}

// taskIDs returns the positional arguments with surrounding whitespace and
// empty values removed.
func taskIDs(c *cli.Command) []string {
	var ids []string
	for _, arg := range c.Args().Slice() {
		if id := strings.TrimSpace(arg); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
