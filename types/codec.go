// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	// CodecVersion is the current default codec version
	CodecVersion = 0

	// maxMessageSize bounds any single encoded value. The bridge queue is the
	// largest: linearcodec also caps slices at 256Ki elements, so the queue
	// is held to ethbridge.MaxQueueLen transfers to stay under both.
	maxMessageSize = 16 * units.MiB
)

// Codec does serialization and deserialization of every value stored or
// carried in transaction data.
var Codec codec.Manager

func init() {
	c := linearcodec.NewDefault()
	Codec = codec.NewManager(maxMessageSize)

	errs := wrappers.Errs{}
	errs.Add(
		Codec.RegisterCodec(CodecVersion, c),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}
