package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "seed", "create-admin", "db-status"} {
		assert.True(t, names[want], want)
	}
}

func TestSeedCommand_ForceFlag(t *testing.T) {
	flag := seedCmd.Flags().Lookup("force")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "flag", firstNonEmpty("flag", "env"))
	assert.Equal(t, "env", firstNonEmpty("", "env"))
	assert.Empty(t, firstNonEmpty("", ""))
}
