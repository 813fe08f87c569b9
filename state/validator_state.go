// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/bridgevm/pos"
	"github.com/ava-labs/bridgevm/types"
)

const (
	validatorSetCacheSize = 64
)

var (
	errValidatorSetWrongVersion = errors.New("wrong version")
	errValidatorSetFinalized    = errors.New("validator set already recorded for epoch")

	_ ValidatorState = &validatorState{}
)

// ValidatorState stores the validator set of each epoch. A set is
// immutable once recorded.
type ValidatorState interface {
	GetValidatorSet(epoch types.Epoch) (pos.ValidatorSet, error)
	PutValidatorSet(epoch types.Epoch, set pos.ValidatorSet) error

	ClearCache()
}

type validatorState struct {
	setCache cache.Cacher
	setDB    database.Database
}

func NewValidatorState(db database.Database) ValidatorState {
	return &validatorState{
		setCache: &cache.LRU{Size: validatorSetCacheSize},
		setDB:    db,
	}
}

func epochBytes(epoch types.Epoch) []byte {
	b := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(b, uint64(epoch))
	return b
}

func (s *validatorState) GetValidatorSet(epoch types.Epoch) (pos.ValidatorSet, error) {
	if set, ok := s.setCache.Get(epoch); ok {
		return set.(pos.ValidatorSet), nil
	}

	setBytes, err := s.setDB.Get(epochBytes(epoch))
	if err == database.ErrNotFound {
		return pos.ValidatorSet{}, fmt.Errorf("%w: %d", ErrNoValidatorSet, epoch)
	}
	if err != nil {
		return pos.ValidatorSet{}, err
	}

	set := pos.ValidatorSet{}
	parsedVersion, err := types.Codec.Unmarshal(setBytes, &set)
	if err != nil {
		return pos.ValidatorSet{}, fmt.Errorf("couldn't parse validator set for epoch %d: %w", epoch, err)
	}
	if parsedVersion != types.CodecVersion {
		return pos.ValidatorSet{}, errValidatorSetWrongVersion
	}

	s.setCache.Put(epoch, set)
	return set, nil
}

func (s *validatorState) PutValidatorSet(epoch types.Epoch, set pos.ValidatorSet) error {
	if err := set.Verify(); err != nil {
		return fmt.Errorf("invalid validator set for epoch %d: %w", epoch, err)
	}
	has, err := s.setDB.Has(epochBytes(epoch))
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: %d", errValidatorSetFinalized, epoch)
	}

	bytes, err := types.Codec.Marshal(types.CodecVersion, &set)
	if err != nil {
		return err
	}

	if err := s.setDB.Put(epochBytes(epoch), bytes); err != nil {
		return err
	}
	s.setCache.Put(epoch, set)
	return nil
}

func (s *validatorState) ClearCache() {
	s.setCache.Flush()
}
