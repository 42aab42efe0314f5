package config

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
		errMsg string
	}{
		{name: "empty prefix", mutate: func(c *Config) { c.Prefix = "" }, field: "project.prefix", errMsg: "cannot be empty"},
		{name: "prefix with dash", mutate: func(c *Config) { c.Prefix = "my-app" }, field: "project.prefix", errMsg: "letters, digits"},
		{name: "threshold above one", mutate: func(c *Config) { c.DeadHistoryThreshold = 1.5 }, field: "project.dead_history_threshold", errMsg: "between 0.0 and 1.0"},
		{name: "negative threshold", mutate: func(c *Config) { c.DeadHistoryThreshold = -0.1 }, field: "project.dead_history_threshold", errMsg: "between 0.0 and 1.0"},
		{name: "unknown strategy", mutate: func(c *Config) { c.IDStrategy = "uuid" }, field: "project.id_strategy", errMsg: "unknown strategy"},
		{name: "zero id length", mutate: func(c *Config) { c.IDLength = 0 }, field: "project.id_length", errMsg: "between 1 and"},
		{name: "empty log file", mutate: func(c *Config) { c.LogFile = " " }, field: "project.log_file", errMsg: "cannot be empty"},
		{name: "priority out of range", mutate: func(c *Config) { c.DefaultPriority = 5 }, field: "project.default_priority", errMsg: "out of range"},
		{name: "unknown theme", mutate: func(c *Config) { c.Theme = "solarized" }, field: "display.theme", errMsg: "unknown theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
			assert.Contains(t, fieldErrs[0].Err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Prefix = ""
	cfg.IDLength = 99

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.Validate(), &fieldErrs)
	assert.Len(t, fieldErrs, 2)
}
