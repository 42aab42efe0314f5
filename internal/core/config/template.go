package config

import (
	"fmt"

	"github.com/colonyops/ticketlog/pkg/tmpl"
)

const tomlTemplate = `# Ticketlog Configuration

[project]
# Prefix for ticket IDs. New tickets look like {{ .Prefix }}-a3f.
prefix = {{ .Prefix | quote }}

# Warn when this share of log lines is superseded history (0.0 to 1.0).
# Run "tl clean" to compact the log.
# dead_history_threshold = {{ .Defaults.DeadHistoryThreshold }}

# How the code after the prefix is chosen: "random" or "sequential".
# id_strategy = {{ .Defaults.IDStrategy | printf "%s" | quote }}
# id_length = {{ .Defaults.IDLength }}

# Task log location, relative to this file.
# log_file = {{ .Defaults.LogFile | quote }}

# Refuse to run when the log contains unreadable lines.
# strict = false

# default_priority = {{ .Defaults.DefaultPriority }}

[display]
# Color theme for text output.
# theme = {{ .Defaults.Theme | quote }}
`

const yamlTemplate = `# Ticketlog Configuration
project:
  # Prefix for ticket IDs. New tickets look like {{ .Prefix }}-a3f.
  prefix: {{ .Prefix | quote }}

  # Warn when this share of log lines is superseded history (0.0 to 1.0).
  # Run "tl clean" to compact the log.
  # dead_history_threshold: {{ .Defaults.DeadHistoryThreshold }}

  # How the code after the prefix is chosen: "random" or "sequential".
  # id_strategy: {{ .Defaults.IDStrategy | printf "%s" | quote }}
  # id_length: {{ .Defaults.IDLength }}

  # Task log location, relative to this file.
  # log_file: {{ .Defaults.LogFile | quote }}

  # Refuse to run when the log contains unreadable lines.
  # strict: false

  # default_priority: {{ .Defaults.DefaultPriority }}

display:
  # Color theme for text output.
  # theme: {{ .Defaults.Theme | quote }}
`

// FileName returns the config file name for format.
func FileName(format Format) string {
	if format == FormatYAML {
		return FileYAML
	}
	return FileTOML
}

// Render produces the content of a new config file with the given prefix.
func Render(format Format, prefix string) (string, error) {
	if err := validatePrefix(prefix); err != nil {
		return "", err
	}

	var src string
	switch format {
	case FormatTOML:
		src = tomlTemplate
	case FormatYAML:
		src = yamlTemplate
	default:
		return "", fmt.Errorf("unknown config format %q", format)
	}

	return tmpl.Render(src, struct {
		Prefix   string
		Defaults Config
	}{
		Prefix:   prefix,
		Defaults: DefaultConfig(),
	})
}
