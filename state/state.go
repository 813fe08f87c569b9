// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"

	"github.com/ava-labs/bridgevm/pos"
	"github.com/ava-labs/bridgevm/types"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	validatorStatePrefix = []byte("validators")
	ledgerStatePrefix    = []byte("ledger")

	_ VPContext = &vpView{}
	_ TxContext = &txEnv{}
)

// Storage is the committed ledger state: the key-value store transactions
// write to, plus the current epoch and the validator set of every epoch.
type Storage struct {
	SingletonState
	ValidatorState

	baseDB *versiondb.Database
	kvDB   database.Database
}

// New returns storage backed by [db].
func New(db database.Database) *Storage {
	// create a new baseDB
	baseDB := versiondb.New(db)

	return &Storage{
		SingletonState: NewSingletonState(prefixdb.New(singletonStatePrefix, baseDB)),
		ValidatorState: NewValidatorState(prefixdb.New(validatorStatePrefix, baseDB)),
		baseDB:         baseDB,
		kvDB:           prefixdb.New(ledgerStatePrefix, baseDB),
	}
}

// Commit flushes pending operations to the underlying database.
func (s *Storage) Commit() error {
	return s.baseDB.Commit()
}

// Abort discards every pending operation, including validator sets cached
// since the last Commit.
func (s *Storage) Abort() {
	s.baseDB.Abort()
	s.ClearCache()
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.baseDB.Close()
}

// NewTx opens a pending transaction over the committed state. Writes made
// through its TxContext are only visible to its VPContext until Commit.
func (s *Storage) NewTx() *TxState {
	return &TxState{
		storage: s,
		postDB:  versiondb.New(s.kvDB),
		tempDB:  memdb.New(),
	}
}

// TxState holds the pre, post and temp views of a single transaction.
type TxState struct {
	storage *Storage
	postDB  *versiondb.Database
	tempDB  *memdb.Database
	changed types.KeySet
}

// Env is the write-capable view handed to transaction code.
func (t *TxState) Env() TxContext { return &txEnv{tx: t} }

// View is the read-only view handed to validity predicates.
func (t *TxState) View() VPContext { return &vpView{tx: t} }

// KeysChanged returns every key written, including temp writes.
func (t *TxState) KeysChanged() types.KeySet {
	return types.NewKeySet(t.changed.List()...)
}

// Commit writes the post-state into the committed state and flushes it.
// The temp view is dropped.
func (t *TxState) Commit() error {
	if err := t.postDB.Commit(); err != nil {
		return fmt.Errorf("couldn't commit transaction writes: %w", err)
	}
	t.tempDB = memdb.New()
	return t.storage.Commit()
}

// Abort discards every write the transaction made.
func (t *TxState) Abort() {
	t.postDB.Abort()
	t.tempDB = memdb.New()
	t.changed = types.KeySet{}
}

func get(db database.KeyValueReader, key types.Key) ([]byte, bool, error) {
	value, err := db.Get(key.Bytes())
	switch err {
	case nil:
		return value, true, nil
	case database.ErrNotFound:
		return nil, false, nil
	default:
		return nil, false, err
	}
}

type vpView struct {
	tx *TxState
}

func (v *vpView) ReadPre(key types.Key) ([]byte, bool, error) {
	return get(v.tx.storage.kvDB, key)
}

func (v *vpView) ReadPost(key types.Key) ([]byte, bool, error) {
	return get(v.tx.postDB, key)
}

func (v *vpView) ReadTemp(key types.Key) ([]byte, bool, error) {
	return get(v.tx.tempDB, key)
}

func (v *vpView) ReadVerbatim(key types.Key) ([]byte, bool, error) {
	return get(v.tx.storage.kvDB, key)
}

func (v *vpView) CurrentEpoch() (types.Epoch, error) {
	epoch, err := v.tx.storage.GetEpoch()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrStorageUnavailable, err)
	}
	return epoch, nil
}

func (v *vpView) ValidatorSet(epoch types.Epoch) (pos.ValidatorSet, error) {
	return v.tx.storage.GetValidatorSet(epoch)
}

type txEnv struct {
	tx *TxState
}

func (e *txEnv) HasKey(key types.Key) (bool, error) {
	return e.tx.postDB.Has(key.Bytes())
}

func (e *txEnv) Read(key types.Key, dest interface{}) (bool, error) {
	value, ok, err := get(e.tx.postDB, key)
	if err != nil || !ok {
		return false, err
	}
	if _, err := types.Codec.Unmarshal(value, dest); err != nil {
		return false, fmt.Errorf("couldn't decode value at %s: %w", key, err)
	}
	return true, nil
}

func (e *txEnv) Write(key types.Key, value interface{}) error {
	return e.write(e.tx.postDB, key, value)
}

func (e *txEnv) WriteTemp(key types.Key, value interface{}) error {
	return e.write(e.tx.tempDB, key, value)
}

func (e *txEnv) write(db database.KeyValueWriter, key types.Key, value interface{}) error {
	bytes, err := types.Codec.Marshal(types.CodecVersion, value)
	if err != nil {
		return fmt.Errorf("couldn't encode value for %s: %w", key, err)
	}
	if err := db.Put(key.Bytes(), bytes); err != nil {
		return err
	}
	e.tx.changed.Add(key)
	return nil
}
