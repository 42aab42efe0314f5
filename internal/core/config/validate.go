package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/colonyops/ticketlog/internal/core/idgen"
	"github.com/colonyops/ticketlog/internal/core/styles"
	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/hay-kot/criterio"
)

// MaxIDLength bounds the random code length.
const MaxIDLength = 16

var prefixPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Validate checks that the configuration is usable. Errors are
// criterio.FieldErrors keyed by config key.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("project.prefix", c.Prefix, validatePrefix),
		criterio.Run("project.dead_history_threshold", c.DeadHistoryThreshold, validateThreshold),
		criterio.Run("project.id_strategy", c.IDStrategy, validateStrategy),
		criterio.Run("project.id_length", c.IDLength, validateIDLength),
		criterio.Run("project.log_file", c.LogFile, validateLogFile),
		criterio.Run("project.default_priority", c.DefaultPriority, task.ValidatePriority),
		criterio.Run("display.theme", c.Theme, validateTheme),
	)
}

// ValidatePrefix checks an ID prefix. Exported for the init command.
func ValidatePrefix(prefix string) error {
	return validatePrefix(prefix)
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix cannot be empty")
	}
	if !prefixPattern.MatchString(prefix) {
		return fmt.Errorf("prefix %q may only contain letters, digits and underscores", prefix)
	}
	return nil
}

func validateThreshold(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("must be between 0.0 and 1.0, got %g", v)
	}
	return nil
}

func validateStrategy(s idgen.Strategy) error {
	if !s.IsValid() {
		return fmt.Errorf("unknown strategy %q: must be %s or %s", s, idgen.StrategyRandom, idgen.StrategySequential)
	}
	return nil
}

func validateIDLength(n int) error {
	if n < 1 || n > MaxIDLength {
		return fmt.Errorf("must be between 1 and %d, got %d", MaxIDLength, n)
	}
	return nil
}

func validateLogFile(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if strings.HasSuffix(name, string(filepath.Separator)) {
		return fmt.Errorf("log_file %q is a directory", name)
	}
	return nil
}

func validateTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q: must be one of %s", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}
