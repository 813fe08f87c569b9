// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	versionKey  = "version"
	logLevelKey = "log-level"
	httpHostKey = "http-host"
	httpPortKey = "http-port"
	genesisKey  = "genesis"
)

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("bridgevm", flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints Version and quit")
	fs.String(logLevelKey, "info", "Log level")
	fs.String(httpHostKey, "127.0.0.1", "Address of the HTTP server")
	fs.Uint(httpPortKey, 9650, "Port of the HTTP server")
	fs.String(genesisKey, "", "Path to the JSON genesis file")

	return fs
}

// getViper returns the viper environment for the binary
func getViper(args []string) (*viper.Viper, error) {
	v := viper.New()

	fs := pflag.NewFlagSet("bridgevm", pflag.ContinueOnError)
	fs.AddGoFlagSet(buildFlagSet())
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	return v, nil
}

// Config is the configuration of the binary
type Config struct {
	PrintVersion bool
	LogLevel     string
	HTTPHost     string
	HTTPPort     uint
	GenesisFile  string
}

func buildConfig(args []string) (Config, error) {
	v, err := getViper(args)
	if err != nil {
		return Config{}, err
	}

	return Config{
		PrintVersion: v.GetBool(versionKey),
		LogLevel:     v.GetString(logLevelKey),
		HTTPHost:     v.GetString(httpHostKey),
		HTTPPort:     v.GetUint(httpPortKey),
		GenesisFile:  v.GetString(genesisKey),
	}, nil
}
