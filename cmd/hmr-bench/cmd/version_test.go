package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-cerp/hmrcore/pkg/version"
)

func TestVersionCmd_DefaultOutput(t *testing.T) {
	// Given a version command
	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	// When executing without flags
	err := cmd.Execute()

	// Then it should output the formatted version string
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "hmr-core")
	assert.Contains(t, output, version.Version)
}

func TestVersionCmd_JSONOutput(t *testing.T) {
	// Given a version command with --json
	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--json"})

	// When executing
	err := cmd.Execute()

	// Then it should emit valid JSON with the version, commit and go_version fields
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, version.Version, info["version"])
	assert.Contains(t, info, "commit")
	assert.Contains(t, info, "go_version")
}

func TestVersionCmd_AddedToRoot(t *testing.T) {
	// Given the root command
	rootCmd := NewRootCmd()

	// When looking for the version subcommand
	versionCmd, _, err := rootCmd.Find([]string{"version"})

	// Then it is registered under that name
	require.NoError(t, err)
	assert.Equal(t, "version", versionCmd.Name())
}
