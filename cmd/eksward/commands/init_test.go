package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	cmd := Init()

	require.NotNil(t, cmd)
	assert.Equal(t, "init", cmd.Use)
	assert.Equal(t, "Interactively create an assessment configuration", cmd.Short)
	assert.NotNil(t, cmd.RunE, "Init command should have RunE function")
}

func TestInit_OutputFlag(t *testing.T) {
	cmd := Init()

	flag := cmd.Flags().Lookup("output")
	require.NotNil(t, flag, "output flag should exist")
	assert.Equal(t, "o", flag.Shorthand)
	assert.Equal(t, "eksward.yaml", flag.DefValue)
}

func TestInit_DefaultsFlag(t *testing.T) {
	cmd := Init()

	flag := cmd.Flags().Lookup("defaults")
	require.NotNil(t, flag, "defaults flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestInit_FullFlag(t *testing.T) {
	cmd := Init()

	flag := cmd.Flags().Lookup("full")
	require.NotNil(t, flag, "full flag should exist")
	assert.Equal(t, "f", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}
