package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess(t *testing.T) {
	cmd := Assess()

	require.NotNil(t, cmd)
	assert.Equal(t, "assess", cmd.Use)
	assert.Equal(t, "Assess cluster upgrade readiness", cmd.Short)
	assert.NotNil(t, cmd.RunE, "Assess command should have RunE function")
}

func TestAssess_ConfigFlagRequired(t *testing.T) {
	cmd := Assess()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag, "config flag should exist")
	assert.Equal(t, "c", flag.Shorthand)

	_, required := flag.Annotations[cobra.BashCompOneRequiredFlag]
	assert.True(t, required, "config flag should be required")
}

func TestAssess_OverrideFlags(t *testing.T) {
	cmd := Assess()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"target-version", "t", ""},
		{"clusters", "", "[]"},
		{"concurrency", "", "0"},
		{"output", "o", ""},
		{"kubeconfig", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "%s flag should exist", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestAssess_ToggleFlags(t *testing.T) {
	cmd := Assess()

	for _, name := range []string{"skip-insights", "workloads", "no-color"} {
		t.Run(name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(name)
			require.NotNil(t, flag, "%s flag should exist", name)
			assert.Equal(t, "false", flag.DefValue)
		})
	}
}
