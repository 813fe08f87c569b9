// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database/memdb"

	"github.com/ava-labs/bridgevm/ledger"
	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/service"
)

const endpoint = "/ext/" + ledger.Name

var errNoGenesis = errors.New("a genesis file is required")

func main() {
	config, err := buildConfig(os.Args[1:])
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if config.PrintVersion {
		fmt.Printf("%s@%s\n", ledger.Name, ledger.Version)
		os.Exit(0)
	}

	logger, err := logging.New(config.LogLevel, os.Stderr)
	if err != nil {
		fmt.Printf("couldn't create logger: %s\n", err)
		os.Exit(1)
	}

	if err := run(config, logger); err != nil {
		logger.Error("serve returned an error", "error", err)
		os.Exit(1)
	}
}

func run(config Config, logger log.Logger) error {
	if config.GenesisFile == "" {
		return errNoGenesis
	}
	genesisBytes, err := os.ReadFile(config.GenesisFile)
	if err != nil {
		return fmt.Errorf("couldn't read genesis: %w", err)
	}
	genesis, err := ledger.ParseGenesis(genesisBytes)
	if err != nil {
		return err
	}

	l, err := ledger.New(memdb.New(), genesis, logger)
	if err != nil {
		return err
	}
	defer l.Close()

	handler, err := service.NewHandler(service.NewService(l, logger))
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle(endpoint, handler)

	addr := net.JoinHostPort(config.HTTPHost, strconv.FormatUint(uint64(config.HTTPPort), 10))
	logger.Info("serving", "address", addr, "endpoint", endpoint)
	return http.ListenAndServe(addr, mux)
}
