package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/ticketlog/internal/core/config"
	"github.com/colonyops/ticketlog/internal/core/styles"
	"github.com/colonyops/ticketlog/pkg/iojson"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type InitCmd struct {
	flags *Flags

	// flags
	prefix     string
	format     string
	force      bool
	jsonOutput bool
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a ticketlog configuration file",
		UsageText: "tl init [options]",
		Description: `Writes a commented configuration file to the git root, or to the
working directory outside a repository.

The ID prefix defaults to the first three letters of the directory name.
When the file already exists you are asked before it is overwritten; use
--force to skip the question.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "prefix",
				Usage:       "prefix for task IDs (default: derived from the directory name)",
				Destination: &cmd.prefix,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "config file format (toml, yaml)",
				Value:       string(config.FormatTOML),
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite an existing configuration file",
				Destination: &cmd.force,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		Action: cmd.run,
	})
	return app
}

type initResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Prefix  string `json:"prefix,omitempty"`
	Error   string `json:"error,omitempty"`
}

// targetDir is the git root containing the working directory, or the
// working directory itself.
func (cmd *InitCmd) targetDir() (string, error) {
	dir := cmd.flags.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if root, ok := config.FindGitRoot(abs); ok {
		return root, nil
	}
	return abs, nil
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	format := config.Format(cmd.format)
	if format != config.FormatTOML && format != config.FormatYAML {
		return fmt.Errorf("unknown config format %q: must be toml or yaml", cmd.format)
	}

	dir, err := cmd.targetDir()
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	path := filepath.Join(dir, config.FileName(format))

	fail := func(err error) error {
		if cmd.jsonOutput {
			_ = iojson.WriteWith(out, os.Stderr, initResult{Path: path, Error: err.Error()})
			return cli.Exit("", 1)
		}
		return err
	}

	if _, err := os.Stat(path); err == nil && !cmd.force {
		overwrite, err := cmd.confirmOverwrite(path)
		if err != nil {
			return fail(err)
		}
		if !overwrite {
			_, _ = fmt.Fprintln(out, "Init cancelled")
			return nil
		}
	}

	prefix := cmd.prefix
	if prefix == "" {
		prefix = config.DerivePrefix(dir)
	}

	content, err := config.Render(format, prefix)
	if err != nil {
		return fail(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fail(fmt.Errorf("cannot write to %s: %w", path, err))
	}

	log.Debug().Ctx(ctx).Str("path", path).Str("prefix", prefix).Msg("wrote config")

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, initResult{Success: true, Path: path, Prefix: prefix})
	}

	_, _ = fmt.Fprintln(out, styles.TextSuccessStyle.Render(fmt.Sprintf("Created configuration at %s with prefix %q", path, prefix)))
	return nil
}

var errConfigExists = errors.New("configuration file already exists")

// confirmOverwrite asks before replacing an existing file. Without a
// terminal, or in JSON mode, it refuses instead of prompting.
func (cmd *InitCmd) confirmOverwrite(path string) (bool, error) {
	if cmd.jsonOutput || !isTerminal(os.Stdin) {
		return false, fmt.Errorf("%w at %s; use --force to overwrite", errConfigExists, path)
	}

	var overwrite bool
	err := huh.NewConfirm().
		Title("Configuration file already exists").
		Description(path + "\nOverwrite?").
		Value(&overwrite).
		Run()
	if err != nil {
		return false, err
	}
	return overwrite, nil
}
