// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging builds the log15 loggers handed to validity predicates and
// transactions.
package logging

import (
	"fmt"
	"io"

	log "github.com/inconshreveable/log15"
)

// New returns a logfmt logger writing records at [level] or above to [w].
func New(level string, w io.Writer, ctx ...interface{}) (log.Logger, error) {
	lvl, err := log.LvlFromString(level)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse log level %q: %w", level, err)
	}
	logger := log.New(ctx...)
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(w, log.LogfmtFormat())))
	return logger, nil
}

// Discard returns a logger that drops every record.
func Discard() log.Logger {
	logger := log.New()
	logger.SetHandler(log.DiscardHandler())
	return logger
}

// OrDiscard returns [logger], or a discarding logger if it is nil.
func OrDiscard(logger log.Logger) log.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}
