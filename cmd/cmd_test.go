package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"user_name=alice", "project_name=demo"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"user_name": "alice", "project_name": "demo"}, params)

	params, err = parseParams(nil)
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = parseParams([]string{"no-equals"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=value"})
	assert.Error(t, err)

	// Values may contain '='.
	params, err = parseParams([]string{"token=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "a=b", params["token"])
}

func TestVersionCommand(t *testing.T) {
	rootCmd.Version = "1.2.3"
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	cmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "1.2.3")
}

func TestTestCommandRequiresTarget(t *testing.T) {
	err := runTest(testCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--suite or --scenario")
}
