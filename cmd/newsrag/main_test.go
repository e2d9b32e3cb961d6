package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"chat", "ingest", "ask", "export"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestAskRequiresQuestion(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestExportRequiresPath(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"export"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestFlags(t *testing.T) {
	seed := chatCmd.Flags().Lookup("seed")
	require.NotNil(t, seed)
	assert.Equal(t, "false", seed.DefValue)

	ctx := askCmd.Flags().Lookup("context")
	require.NotNil(t, ctx)
	assert.Equal(t, "c", ctx.Shorthand)

	for _, name := range []string{"debug", "completion-model", "embedding-model", "index-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := newLogger("loud", false)
	assert.Error(t, err)

	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.NotNil(t, l)
}
