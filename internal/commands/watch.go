package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/colonyops/ticketlog/internal/core/logging"
	"github.com/colonyops/ticketlog/internal/store/tasklog"
)

const clearScreen = "\033[H\033[2J"

// watchLog calls render once, then again after every change to the log
// until ctx is canceled. The screen is cleared between renders when w is a
// terminal.
func watchLog(ctx context.Context, w io.Writer, path string, render func(context.Context) error) error {
	watcher, err := tasklog.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer func() { _ = watcher.Close() }()

	logger := logging.Component("watch")
	clearFirst := isTerminal(w)
	draw := func() error {
		if clearFirst {
			_, _ = fmt.Fprint(w, clearScreen)
		}
		return render(ctx)
	}

	if err := draw(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-watcher.Changes():
			if !ok {
				return nil
			}
			logger.Debug().Ctx(ctx).Msg("log changed, redrawing")
			if err := draw(); err != nil {
				return err
			}
		case err := <-watcher.Errors():
			logger.Warn().Ctx(ctx).Err(err).Str("path", path).Msg("watch error")
		}
	}
}
