package config

import (
	"errors"
	"path/filepath"
)

// Project is a resolved project: its configuration and where things live.
type Project struct {
	Config     *Config
	ConfigPath string // empty when running on defaults
	Root       string
}

// LogPath returns the absolute path of the task log.
func (p *Project) LogPath() string {
	if filepath.IsAbs(p.Config.LogFile) {
		return p.Config.LogFile
	}
	return filepath.Join(p.Root, p.Config.LogFile)
}

// HasConfigFile reports whether the project was configured from a file.
func (p *Project) HasConfigFile() bool {
	return p.ConfigPath != ""
}

// ResolveProject finds the project that contains startDir. The root is the
// directory of the config file when one is found, else the git root, else
// startDir itself. Without a config file the defaults are used.
func ResolveProject(startDir string) (*Project, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	path, err := Find(abs)
	switch {
	case err == nil:
		cfg, err := Load(path)
		if err != nil {
			return nil, err
		}
		return &Project{Config: cfg, ConfigPath: path, Root: filepath.Dir(path)}, nil
	case errors.Is(err, ErrNotFound):
		cfg := DefaultConfig()
		root := abs
		if gitRoot, ok := FindGitRoot(abs); ok {
			root = gitRoot
		}
		return &Project{Config: &cfg, Root: root}, nil
	default:
		return nil, err
	}
}
