package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(args ...string) (string, error) {
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand("version")
	require.NoError(t, err)
	assert.Contains(t, out, "vizsat")
	assert.Contains(t, out, "commit:")
}

func TestRootVersionFlag(t *testing.T) {
	out, err := executeCommand("--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand("bogus")
	assert.Error(t, err)
}

func TestCacheWarmRejectsNonInteger(t *testing.T) {
	_, err := executeCommand("cache", "warm", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an integer")
}
