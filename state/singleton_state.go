// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/bridgevm/types"
)

const (
	IsInitializedKey byte = iota
	EpochKey
)

var (
	isInitializedKey = []byte{IsInitializedKey}
	epochKey         = []byte{EpochKey}

	errEpochFormat = errors.New("stored epoch has the wrong length")

	_ SingletonState = (*singletonState)(nil)
)

// SingletonState is a thin wrapper around a database to provide
// serialization and de-serialization of the initialization status and of
// the current epoch.
type SingletonState interface {
	IsInitialized() (bool, error)
	SetInitialized() error

	GetEpoch() (types.Epoch, error)
	SetEpoch(types.Epoch) error
}

type singletonState struct {
	singletonDB database.Database
}

func NewSingletonState(db database.Database) SingletonState {
	return &singletonState{
		singletonDB: db,
	}
}

func (s *singletonState) IsInitialized() (bool, error) {
	return s.singletonDB.Has(isInitializedKey)
}

func (s *singletonState) SetInitialized() error {
	return s.singletonDB.Put(isInitializedKey, nil)
}

func (s *singletonState) GetEpoch() (types.Epoch, error) {
	epochBytes, err := s.singletonDB.Get(epochKey)
	if err != nil {
		return 0, err
	}
	if len(epochBytes) != wrappers.LongLen {
		return 0, fmt.Errorf("%w: %d", errEpochFormat, len(epochBytes))
	}
	return types.Epoch(binary.BigEndian.Uint64(epochBytes)), nil
}

func (s *singletonState) SetEpoch(epoch types.Epoch) error {
	epochBytes := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(epochBytes, uint64(epoch))
	return s.singletonDB.Put(epochKey, epochBytes)
}
