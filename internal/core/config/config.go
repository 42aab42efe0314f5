// Package config handles project configuration loading and validation for
// ticketlog.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/colonyops/ticketlog/internal/core/idgen"
	"github.com/colonyops/ticketlog/internal/core/styles"
	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config file names searched for, in order of preference within a directory.
const (
	FileTOML = ".ticketlog.toml"
	FileYAML = ".ticketlog.yaml"
	FileYML  = ".ticketlog.yml"
)

// FileNames lists every recognized config file name.
var FileNames = []string{FileTOML, FileYAML, FileYML}

// Default values for unset options.
const (
	DefaultPrefix               = "tl"
	DefaultDeadHistoryThreshold = 0.3
	DefaultLogFile              = "ticketlog.jsonl"
)

// ErrNotFound is returned by Find when no config file exists between the
// start directory and the stopping point.
var ErrNotFound = errors.New("no ticketlog config found")

// Config holds the project configuration.
type Config struct {
	Prefix               string         `json:"prefix"`
	DeadHistoryThreshold float64        `json:"dead_history_threshold"`
	IDStrategy           idgen.Strategy `json:"id_strategy"`
	IDLength             int            `json:"id_length"`
	LogFile              string         `json:"log_file"`
	Strict               bool           `json:"strict"`
	DefaultPriority      int            `json:"default_priority"`
	Theme                string         `json:"theme"`
}

// file is the on-disk shape. Pointers distinguish unset keys from zero
// values such as priority 0 or a threshold of 0.
type file struct {
	Project struct {
		Prefix               *string  `yaml:"prefix" toml:"prefix"`
		DeadHistoryThreshold *float64 `yaml:"dead_history_threshold" toml:"dead_history_threshold"`
		IDStrategy           *string  `yaml:"id_strategy" toml:"id_strategy"`
		IDLength             *int     `yaml:"id_length" toml:"id_length"`
		LogFile              *string  `yaml:"log_file" toml:"log_file"`
		Strict               *bool    `yaml:"strict" toml:"strict"`
		DefaultPriority      *int     `yaml:"default_priority" toml:"default_priority"`
	} `yaml:"project" toml:"project"`
	Display struct {
		Theme *string `yaml:"theme" toml:"theme"`
	} `yaml:"display" toml:"display"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Prefix:               DefaultPrefix,
		DeadHistoryThreshold: DefaultDeadHistoryThreshold,
		IDStrategy:           idgen.StrategyRandom,
		IDLength:             idgen.DefaultLength,
		LogFile:              DefaultLogFile,
		DefaultPriority:      task.DefaultPriority,
		Theme:                styles.DefaultTheme,
	}
}

// Load reads configuration from path. The format is chosen by extension:
// .toml for TOML, anything else for YAML. Keys that are not set keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Format is a config file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes config data in the given format and applies defaults. It
// does not validate.
func Parse(data []byte, format Format) (*Config, error) {
	var f file
	switch format {
	case FormatTOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}

	cfg := DefaultConfig()
	p := f.Project
	if p.Prefix != nil {
		cfg.Prefix = *p.Prefix
	}
	if p.DeadHistoryThreshold != nil {
		cfg.DeadHistoryThreshold = *p.DeadHistoryThreshold
	}
	if p.IDStrategy != nil {
		cfg.IDStrategy = idgen.Strategy(*p.IDStrategy)
	}
	if p.IDLength != nil {
		cfg.IDLength = *p.IDLength
	}
	if p.LogFile != nil {
		cfg.LogFile = *p.LogFile
	}
	if p.Strict != nil {
		cfg.Strict = *p.Strict
	}
	if p.DefaultPriority != nil {
		cfg.DefaultPriority = *p.DefaultPriority
	}
	if f.Display.Theme != nil {
		cfg.Theme = *f.Display.Theme
	}

	return &cfg, nil
}

// Find walks up from startDir looking for a config file. The search stops
// after the git root (the first directory containing .git) or at the
// filesystem root. Returns ErrNotFound when nothing is found.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	gitRoot, _ := FindGitRoot(dir)

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == gitRoot {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// FindGitRoot returns the nearest ancestor of dir (including dir) that
// contains a .git entry.
func FindGitRoot(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// DerivePrefix builds an ID prefix from the first three alphanumeric
// characters of the directory name, lowercased. Names with fewer than three
// such characters fall back to DefaultPrefix.
//
//	my-cool-project -> myc
//	FooBar          -> foo
//	ab              -> tl
func DerivePrefix(dir string) string {
	name := strings.ToLower(nonAlnum.ReplaceAllString(filepath.Base(dir), ""))
	if len(name) >= 3 {
		return name[:3]
	}
	return DefaultPrefix
}
