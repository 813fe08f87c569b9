// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger runs transactions against storage and commits their writes
// only when every validity predicate they trigger accepts them.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/version"

	"github.com/ava-labs/bridgevm/ethbridge"
	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/pos"
	"github.com/ava-labs/bridgevm/proto"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/token"
	"github.com/ava-labs/bridgevm/types"
	"github.com/ava-labs/bridgevm/vp"
)

const Name = "bridgevm"

var (
	Version = version.NewDefaultVersion(0, 1, 0)

	ErrQueueNotInitialized = errors.New("bridge queue not initialized")

	errUnknownTxKind = errors.New("unknown transaction kind")
	errBadGenesis    = errors.New("genesis is required to initialize an empty database")
	errEpochNotLater = errors.New("epoch must increase")
	errTxHalted      = errors.New("transaction halted")
)

// TxKind selects the transaction code to run.
type TxKind string

const (
	TxUpdateQueue TxKind = "update_queue"
	TxTransfer    TxKind = "transfer"
)

// Ledger serialises transactions over a single storage.
type Ledger struct {
	lock  sync.Mutex
	state *state.Storage
	log   log.Logger
}

// New opens the ledger stored in [db]. If [db] is empty it is initialized
// from [genesis].
func New(db database.Database, genesis *Genesis, logger log.Logger) (*Ledger, error) {
	logger = logging.OrDiscard(logger)
	logger.Info("initializing ledger", "version", Version)

	l := &Ledger{
		state: state.New(db),
		log:   logger,
	}

	initialized, err := l.state.IsInitialized()
	if err != nil {
		return nil, err
	}
	if initialized {
		return l, nil
	}
	if genesis == nil {
		return nil, errBadGenesis
	}
	if err := genesis.apply(l.state); err != nil {
		l.state.Abort()
		logger.Error("error while applying genesis", "error", err)
		return nil, fmt.Errorf("couldn't apply genesis: %w", err)
	}
	return l, nil
}

// Execute runs a transaction of [kind] on [txData]. Its writes are committed
// iff the transaction completes and every triggered validity predicate
// accepts. The only verifier is the signer recovered from [txData]'s
// envelope. A halted transaction returns an error and writes nothing.
func (l *Ledger) Execute(kind TxKind, txData []byte) (bool, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	verifiers := l.verifiersOf(txData)
	tx := l.state.NewTx()
	if err := l.apply(tx, kind, txData); err != nil {
		tx.Abort()
		l.log.Warn("transaction halted", "kind", kind, "error", err)
		return false, fmt.Errorf("%w: %s", errTxHalted, err)
	}

	keysChanged := tx.KeysChanged()
	vps := triggeredVPs(tx.View(), keysChanged, l.log)
	if len(vps) == 0 {
		l.log.Info("no validity predicate guards the changed keys", "kind", kind, "keys", keysChanged.Len())
		tx.Abort()
		return false, nil
	}
	for _, v := range vps {
		accepted, err := vp.Check(l.log, v, txData, keysChanged, verifiers)
		if err != nil || !accepted {
			l.log.Info("transaction rejected", "kind", kind, "vp", v.Address())
			tx.Abort()
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("couldn't commit transaction: %w", err)
	}
	l.log.Info("transaction accepted", "kind", kind, "keys", keysChanged.Len())
	return true, nil
}

// verifiersOf returns the signer of [txData]'s envelope, or no one if it
// doesn't decode or the signer can't be recovered.
func (l *Ledger) verifiersOf(txData []byte) types.AddressSet {
	signed, err := proto.DecodeSigned(txData)
	if err != nil {
		return types.AddressSet{}
	}
	signer, err := signed.Signer()
	if err != nil {
		l.log.Debug("couldn't recover transaction signer", "error", err)
		return types.AddressSet{}
	}
	return types.NewAddressSet(signer)
}

func (l *Ledger) apply(tx *state.TxState, kind TxKind, txData []byte) error {
	switch kind {
	case TxUpdateQueue:
		return ethbridge.NewTxUpdateQueue(tx.Env(), l.log).Apply(txData)
	case TxTransfer:
		return token.NewTxTransfer(tx.Env(), l.log).Apply(txData)
	default:
		return fmt.Errorf("%w: %q", errUnknownTxKind, kind)
	}
}

// triggeredVPs returns the VPs guarding [keysChanged]: the bridge VP if any
// bridge key changed, the mint VP if any mint balance changed, then one token
// VP per token whose balances changed, in ascending token order.
func triggeredVPs(ctx state.VPContext, keysChanged types.KeySet, logger log.Logger) []vp.NativeVP {
	var (
		bridge bool
		tokens types.AddressSet
	)
	for _, key := range keysChanged.List() {
		if ethbridge.IsBridgeKey(key) {
			bridge = true
		}
		if tok, ok := token.TokenOf(key); ok {
			tokens.Add(tok)
		}
	}

	vps := []vp.NativeVP{}
	if bridge {
		vps = append(vps, ethbridge.NewVP(ctx, logger))
	}
	if token.MintsAny(keysChanged) {
		vps = append(vps, token.NewMintVP(ctx, logger))
	}
	for _, tok := range tokens.List() {
		vps = append(vps, token.NewVP(ctx, tok, logger))
	}
	return vps
}

// AdvanceEpoch moves the ledger to the next epoch, governed by [set].
func (l *Ledger) AdvanceEpoch(set pos.ValidatorSet) (types.Epoch, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	current, err := l.state.GetEpoch()
	if err != nil {
		return 0, err
	}
	next := current + 1
	if next <= current {
		return 0, errEpochNotLater
	}
	if err := l.advanceEpoch(next, set); err != nil {
		l.state.Abort()
		return 0, err
	}
	l.log.Info("advanced epoch", "epoch", next, "active", len(set.Active))
	return next, nil
}

func (l *Ledger) advanceEpoch(next types.Epoch, set pos.ValidatorSet) error {
	if err := l.state.PutValidatorSet(next, set); err != nil {
		return err
	}
	if err := l.state.SetEpoch(next); err != nil {
		return err
	}
	return l.state.Commit()
}

// Epoch returns the current epoch.
func (l *Ledger) Epoch() (types.Epoch, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.state.GetEpoch()
}

// Queue returns the committed bridge queue.
func (l *Ledger) Queue() (ethbridge.BridgeQueue, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	queue := ethbridge.BridgeQueue{}
	ok, err := l.read(ethbridge.QueueKey(), &queue)
	if err != nil {
		return ethbridge.BridgeQueue{}, err
	}
	if !ok {
		return ethbridge.BridgeQueue{}, ErrQueueNotInitialized
	}
	return queue, nil
}

// Balance returns [owner]'s committed balance of [tok].
func (l *Ledger) Balance(tok, owner types.Address) (types.Amount, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	var amount types.Amount
	_, err := l.read(token.BalanceKey(tok, owner), &amount)
	return amount, err
}

// read decodes the committed value of [key] into [dest].
func (l *Ledger) read(key types.Key, dest interface{}) (bool, error) {
	tx := l.state.NewTx()
	defer tx.Abort()

	return tx.Env().Read(key, dest)
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.state.Close()
}
