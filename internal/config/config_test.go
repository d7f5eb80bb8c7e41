package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/objrepl/internal/catalog"
)

func TestParseConfig_Full(t *testing.T) {
	yaml := `
prompt: "objrepl> "
history: "-"
banner: false
imports:
  - java.util
  - java.lang
aliases:
  - class: java.util.ArrayList
    as: List
disable:
  - java.sql.Connection
log:
  level: debug
  format: json
`
	cfg, err := ParseConfig([]byte(yaml), "objrepl.yaml")
	require.NoError(t, err)

	assert.Equal(t, "objrepl> ", cfg.Prompt)
	assert.Equal(t, "-", cfg.History)
	assert.False(t, cfg.ShowBanner())
	assert.Equal(t, []string{"java.util", "java.lang"}, cfg.Imports)
	require.Len(t, cfg.Aliases, 1)
	assert.Equal(t, Alias{Class: "java.util.ArrayList", As: "List"}, cfg.Aliases[0])
	assert.Equal(t, []string{"java.sql.Connection"}, cfg.Disable)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "objrepl.yaml", cfg.Path())
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"), "objrepl.yaml")
	require.NoError(t, err)

	assert.Equal(t, DefaultPrompt, cfg.Prompt)
	assert.Equal(t, DefaultHistoryFile, cfg.History)
	assert.True(t, cfg.ShowBanner())
	assert.Equal(t, catalog.DefaultImports, cfg.Imports)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)

	assert.Equal(t, cfg.Imports, Default().Imports)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "prompt: [", "parsing"},
		{"alias without class", "aliases:\n  - as: L\n", "class is required"},
		{"alias without name", "aliases:\n  - class: java.util.ArrayList\n", "as is required"},
		{"dotted alias", "aliases:\n  - class: java.util.ArrayList\n    as: a.b\n", "must be a simple name"},
		{"conflicting alias", "aliases:\n  - class: java.util.ArrayList\n    as: L\n  - class: java.util.HashMap\n    as: L\n", "already used"},
		{"bad import", "imports:\n  - \"java.\"\n", "invalid package prefix"},
		{"empty disable", "disable:\n  - \"\"\n", "class name is empty"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "objrepl.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path := filepath.Join(root, "objrepl.yml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: \"$ \"\n"), 0o644))

	found, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	cfg, err := LoadConfig(found)
	require.NoError(t, err)
	assert.Equal(t, "$ ", cfg.Prompt)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"OBJREPL_PROMPT":     ">> ",
		"OBJREPL_LOG_LEVEL":  "debug",
		"OBJREPL_LOG_FORMAT": "json",
		"OBJREPL_BANNER":     "0",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, ">> ", cfg.Prompt)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.ShowBanner())

	err := Default().ApplyEnv(func(k string) string {
		if k == "OBJREPL_BANNER" {
			return "sometimes"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OBJREPL_BANNER")

	err = Default().ApplyEnv(func(k string) string {
		if k == "OBJREPL_LOG_LEVEL" {
			return "chatty"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestLoad_DotEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "objrepl.yaml"), []byte("prompt: \"file> \"\nbanner: true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OBJREPL_BANNER=false\n"), 0o644))

	t.Setenv("OBJREPL_PROMPT", "env> ")
	// godotenv.Load sets variables directly; register cleanup for the one it adds.
	t.Setenv("OBJREPL_BANNER", "")
	require.NoError(t, os.Unsetenv("OBJREPL_BANNER"))

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "env> ", cfg.Prompt)
	assert.False(t, cfg.ShowBanner())
	assert.Equal(t, filepath.Join(dir, "objrepl.yaml"), cfg.Path())
}

func TestLoad_NoFiles(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Path())
}

func TestApply_Registry(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
imports: [java.util]
aliases:
  - class: java.lang.StringBuilder
    as: SB
disable: [java.util.HashMap]
`), "objrepl.yaml")
	require.NoError(t, err)

	reg := catalog.NewDefault()
	require.NoError(t, cfg.Apply(reg))

	_, ok := reg.Lookup("ArrayList")
	assert.True(t, ok)
	_, ok = reg.Lookup("String")
	assert.False(t, ok, "java.lang is no longer imported")

	sb, ok := reg.Lookup("SB")
	require.True(t, ok)
	assert.Equal(t, "java.lang.StringBuilder", sb.Name)

	_, ok = reg.Lookup("java.util.HashMap")
	assert.False(t, ok)

	bad := Default()
	bad.Aliases = []Alias{{Class: "java.lang.Nope", As: "N"}}
	assert.Error(t, bad.Apply(catalog.NewDefault()))
}
