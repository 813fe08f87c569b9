// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildConfigDefaults(t *testing.T) {
	require := require.New(t)

	config, err := buildConfig(nil)
	require.NoError(err)
	require.Equal(Config{
		LogLevel: "info",
		HTTPHost: "127.0.0.1",
		HTTPPort: 9650,
	}, config)
}

func TestBuildConfigFlags(t *testing.T) {
	require := require.New(t)

	config, err := buildConfig([]string{
		"--version",
		"--log-level=debug",
		"--http-port=9000",
		"--genesis=/tmp/genesis.json",
	})
	require.NoError(err)
	require.True(config.PrintVersion)
	require.Equal("debug", config.LogLevel)
	require.Equal(uint(9000), config.HTTPPort)
	require.Equal("/tmp/genesis.json", config.GenesisFile)
}

func TestBuildConfigUnknownFlag(t *testing.T) {
	_, err := buildConfig([]string{"--nope"})
	require.Error(t, err)
}

func TestRunRequiresGenesis(t *testing.T) {
	require.ErrorIs(t, run(Config{}, nil), errNoGenesis)
}
