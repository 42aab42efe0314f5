package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/ticketlog/internal/core/config"
)

// ConfigCheck reports where the project configuration comes from and
// whether it is valid.
type ConfigCheck struct {
	project *config.Project
	loadErr error
}

// NewConfigCheck creates a config check. loadErr is the error, if any,
// returned while resolving the project.
func NewConfigCheck(project *config.Project, loadErr error) *ConfigCheck {
	return &ConfigCheck{project: project, loadErr: loadErr}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.loadErr != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusFail,
			Detail: c.loadErr.Error(),
		})
		return result
	}

	if c.project.HasConfigFile() {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusPass,
			Detail: c.project.ConfigPath,
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusWarn,
			Detail: "not found, using defaults (run 'tl init')",
		})
	}

	if err := c.project.Config.Validate(); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "settings",
			Status: StatusFail,
			Detail: err.Error(),
		})
	} else {
		cfg := c.project.Config
		result.Items = append(result.Items, CheckItem{
			Label:  "settings",
			Status: StatusPass,
			Detail: fmt.Sprintf("prefix %q, %s ids", cfg.Prefix, cfg.IDStrategy),
		})
	}

	return result
}
