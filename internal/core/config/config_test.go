package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/colonyops/ticketlog/internal/core/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileTOML)
	writeFile(t, path, `
[project]
prefix = "web"
dead_history_threshold = 0.5
id_strategy = "sequential"
default_priority = 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "web", cfg.Prefix)
	assert.InDelta(t, 0.5, cfg.DeadHistoryThreshold, 1e-9)
	assert.Equal(t, idgen.StrategySequential, cfg.IDStrategy)
	assert.Equal(t, 0, cfg.DefaultPriority)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, idgen.DefaultLength, cfg.IDLength)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileYAML)
	writeFile(t, path, `
project:
  prefix: api
  id_length: 5
  log_file: .tasks/log.jsonl
  strict: true
display:
  theme: gruvbox
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.Prefix)
	assert.Equal(t, 5, cfg.IDLength)
	assert.Equal(t, ".tasks/log.jsonl", cfg.LogFile)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.InDelta(t, DefaultDeadHistoryThreshold, cfg.DeadHistoryThreshold, 1e-9)
	assert.Equal(t, 2, cfg.DefaultPriority)
}

func TestLoad_OriginalFormat(t *testing.T) {
	// Files written by earlier versions only carry prefix and threshold.
	path := filepath.Join(t.TempDir(), FileTOML)
	writeFile(t, path, "[project]\nprefix = \"tic\"\n# dead_history_threshold = 0.3\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tic", cfg.Prefix)
	assert.Equal(t, idgen.StrategyRandom, cfg.IDStrategy)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileYAML)
	writeFile(t, path, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{name: "bad toml", file: FileTOML, content: "[project\n", wantErr: "parse config file"},
		{name: "bad yaml", file: FileYAML, content: "project: [", wantErr: "parse config file"},
		{name: "invalid value", file: FileTOML, content: "[project]\nid_strategy = \"uuid\"\n", wantErr: "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			_, err := Load(path)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileTOML))
	assert.ErrorContains(t, err, "read config file")
}

func TestFind(t *testing.T) {
	t.Run("finds config in parent", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, FileTOML), "[project]\n")
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		got, err := Find(nested)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, FileTOML), got)
	})

	t.Run("prefers toml over yaml in the same directory", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, FileYAML), "project: {}\n")
		writeFile(t, filepath.Join(root, FileTOML), "[project]\n")

		got, err := Find(root)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, FileTOML), got)
	})

	t.Run("stops at git root", func(t *testing.T) {
		outer := t.TempDir()
		writeFile(t, filepath.Join(outer, FileTOML), "[project]\n")
		repo := filepath.Join(outer, "repo")
		require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
		nested := filepath.Join(repo, "pkg")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		_, err := Find(nested)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("config at git root is found", func(t *testing.T) {
		repo := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
		writeFile(t, filepath.Join(repo, FileYAML), "project: {}\n")
		nested := filepath.Join(repo, "pkg", "x")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		got, err := Find(nested)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(repo, FileYAML), got)
	})
}

func TestResolveProject(t *testing.T) {
	t.Run("with config file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, FileTOML), "[project]\nprefix = \"abc\"\nlog_file = \"data/tasks.jsonl\"\n")
		nested := filepath.Join(root, "src")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		p, err := ResolveProject(nested)
		require.NoError(t, err)

		assert.True(t, p.HasConfigFile())
		assert.Equal(t, root, p.Root)
		assert.Equal(t, "abc", p.Config.Prefix)
		assert.Equal(t, filepath.Join(root, "data", "tasks.jsonl"), p.LogPath())
	})

	t.Run("defaults at git root", func(t *testing.T) {
		repo := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
		nested := filepath.Join(repo, "cmd")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		p, err := ResolveProject(nested)
		require.NoError(t, err)

		assert.False(t, p.HasConfigFile())
		assert.Equal(t, repo, p.Root)
		assert.Equal(t, DefaultPrefix, p.Config.Prefix)
		assert.Equal(t, filepath.Join(repo, DefaultLogFile), p.LogPath())
	})

	t.Run("absolute log file", func(t *testing.T) {
		root := t.TempDir()
		abs := filepath.Join(t.TempDir(), "shared.jsonl")
		writeFile(t, filepath.Join(root, FileYAML), "project:\n  log_file: "+abs+"\n")

		p, err := ResolveProject(root)
		require.NoError(t, err)
		assert.Equal(t, abs, p.LogPath())
	})
}

func TestDerivePrefix(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{dir: "/home/me/my-cool-project", want: "myc"},
		{dir: "/src/ticketlog", want: "tic"},
		{dir: "FooBar", want: "foo"},
		{dir: "/x/MyApp", want: "mya"},
		{dir: "/x/ab", want: "tl"},
		{dir: "/x/a-b", want: "tl"},
		{dir: "/x/__init__", want: "ini"},
		{dir: "/x/42things", want: "42t"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePrefix(tt.dir))
		})
	}
}

func TestRender(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			content, err := Render(format, "myc")
			require.NoError(t, err)
			assert.Contains(t, content, `"myc"`)

			cfg, err := Parse([]byte(content), format)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			want := DefaultConfig()
			want.Prefix = "myc"
			assert.Equal(t, want, *cfg)
		})
	}
}

func TestRender_InvalidPrefix(t *testing.T) {
	_, err := Render(FormatTOML, "bad prefix")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, FileTOML, FileName(FormatTOML))
	assert.Equal(t, FileYAML, FileName(FormatYAML))
}
