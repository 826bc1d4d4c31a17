package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs tagctl with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd("test")
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeProject writes a config using a text tag file and returns the config path.
func writeProject(t *testing.T, tags string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tags.txt"), []byte(tags), 0o644))
	cfg := filepath.Join(dir, "gameplaytags.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("source:\n  type: file\n  file: tags.txt\nlog_level: error\n"), 0o644))
	return cfg
}

const sampleTags = `# sample
Combat.Damage.Fire
Combat.Melee
Status.Debuff.Slow
`

func TestHashCmd(t *testing.T) {
	out, err := execute(t, "hash", "A.B", " Combat . Damage ")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("1414762188\tA.B\n%d\tCombat.Damage\n", gameplaytags.Hash("Combat.Damage")), out)

	out, err = execute(t, "hash", "A..B", "A")
	require.Error(t, err)
	assert.ErrorIs(t, err, gameplaytags.ErrInvalidPath)
	assert.Equal(t, "3289118412\tA\n", out)
}

func TestTreeCmd(t *testing.T) {
	cfg := writeProject(t, sampleTags)

	out, err := execute(t, "tree", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, `Combat *
  Damage *
    Fire
  Melee
Status *
  Debuff *
    Slow
`, out)

	out, err = execute(t, "tree", "--config", cfg, "--ids")
	require.NoError(t, err)
	assert.Contains(t, out, "Melee (")
}

func TestResolveCmd(t *testing.T) {
	cfg := writeProject(t, sampleTags)
	slow := gameplaytags.FromPath("Status.Debuff.Slow").Raw()

	out, err := execute(t, "resolve", "--config", cfg,
		fmt.Sprint(slow), "Combat", "Nope", "12345")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\tStatus.Debuff.Slow\nCombat\t%d\nNope\tunknown\n12345\t#12345\n",
		slow, gameplaytags.FromPath("Combat").Raw()), out)
}

func TestCheckCmd(t *testing.T) {
	cfg := writeProject(t, sampleTags)

	out, err := execute(t, "check", "--config", cfg, "Status.Debuff.Slow", "Status")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = execute(t, "check", "--config", cfg, "Status", "Status.Debuff.Slow")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = execute(t, "check", "--config", cfg, "Status")
	assert.Error(t, err)
}

func TestQueryCmd(t *testing.T) {
	cfg := writeProject(t, sampleTags)

	out, err := execute(t, "query", "--config", cfg,
		`tags.has("Status.Debuff") && !tags.hasExact("Combat")`,
		"--tags", "Status.Debuff.Slow,Combat.Melee")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	_, err = execute(t, "query", "--config", cfg, `tags.has(`)
	assert.ErrorIs(t, err, gameplaytags.ErrInvalidQuery)
}

func TestStatsCmd(t *testing.T) {
	cfg := writeProject(t, sampleTags)

	out, err := execute(t, "stats", "--config", cfg)
	require.NoError(t, err)

	var stats gameplaytags.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 3, stats.Explicit)
	assert.Equal(t, 4, stats.Implicit)
}

func TestFileFlagOverridesConfig(t *testing.T) {
	cfg := writeProject(t, sampleTags)
	other := filepath.Join(t.TempDir(), "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("Other.Tag\n"), 0o644))

	out, err := execute(t, "tree", "--config", cfg, "--file", other)
	require.NoError(t, err)
	assert.Equal(t, "Other *\n  Tag\n", out)
}

func TestEnvOverridesConfig(t *testing.T) {
	cfg := writeProject(t, sampleTags)
	t.Setenv("TAGCTL_SOURCE_TYPE", "static")
	t.Setenv("TAGCTL_SOURCE_PATHS", "Env.Only")

	out, err := execute(t, "check", "--config", cfg, "Env.Only", "Env")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestMissingSource(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "gameplaytags.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("source:\n  type: file\n  file: missing.txt\nlog_level: error\n"), 0o644))

	_, err := execute(t, "tree", "--config", cfg)
	assert.ErrorIs(t, err, gameplaytags.ErrSourceUnavailable)

	_, err = execute(t, "tree", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWatchRejectsStaticSource(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "gameplaytags.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("source:\n  type: static\n  paths: [A.B]\nlog_level: error\n"), 0o644))

	out, err := execute(t, "watch", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be watched")
	assert.Equal(t, "loaded: 1 explicit, 1 implicit tags\n", out)
}
