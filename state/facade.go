// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"errors"

	"github.com/ava-labs/bridgevm/pos"
	"github.com/ava-labs/bridgevm/types"
)

var (
	// ErrStorageUnavailable is returned when the current epoch can't be read.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNoValidatorSet is returned when an epoch has no recorded validator set.
	ErrNoValidatorSet = errors.New("no validator set for epoch")
)

// VPContext is the read-only view a validity predicate gets of one
// transaction's storage changes. Reads return the raw stored bytes and
// whether the key was present.
type VPContext interface {
	// ReadPre reads [key] as it was before the transaction.
	ReadPre(key types.Key) ([]byte, bool, error)
	// ReadPost reads [key] as the transaction left it.
	ReadPost(key types.Key) ([]byte, bool, error)
	// ReadTemp reads the non-committed scratch value the transaction wrote
	// for [key]. Only the mint and burn addresses use it.
	ReadTemp(key types.Key) ([]byte, bool, error)
	// ReadVerbatim reads committed state outside the transaction's changes,
	// such as a validator's protocol key.
	ReadVerbatim(key types.Key) ([]byte, bool, error)

	CurrentEpoch() (types.Epoch, error)
	ValidatorSet(epoch types.Epoch) (pos.ValidatorSet, error)
}

// TxContext is the write-capable view a transaction gets. Values are encoded
// with types.Codec.
type TxContext interface {
	HasKey(key types.Key) (bool, error)
	// Read decodes the value at [key] into [dest], reporting whether the key
	// was present.
	Read(key types.Key, dest interface{}) (bool, error)
	Write(key types.Key, value interface{}) error
	// WriteTemp writes into the scratch view that is visible to validity
	// predicates but is never committed.
	WriteTemp(key types.Key, value interface{}) error
}
