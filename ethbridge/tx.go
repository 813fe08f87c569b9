// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethbridge

import (
	"errors"
	"fmt"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/state"
)

const (
	txName = "tx_update_queue"

	// MaxQueueLen bounds the bridge queue. An encoded transfer is at most
	// 124 bytes, so a full queue stays well under the codec's size limit.
	MaxQueueLen = 100_000
)

var (
	errQueueMissing = errors.New("couldn't deserialize queue")
	errQueueFull    = errors.New("bridge queue is full")
)

// QueueStep runs against the queue, in order, before new transfers are
// appended. Steps only see the in-memory queue, so whatever they do the
// transaction still writes nothing but the queue key.
type QueueStep interface {
	Name() string
	Apply(queue BridgeQueue) (BridgeQueue, error)
}

// TxUpdateQueue appends attested transfers to the bridge queue. It doesn't
// check the signature on its input: the VP does that against the resulting
// change to the queue key.
type TxUpdateQueue struct {
	env    state.TxContext
	log    log.Logger
	steps  []QueueStep
	maxLen int
}

// NewTxUpdateQueue returns the transaction writing through [env]. With no
// [steps] the default no-op steps are used.
func NewTxUpdateQueue(env state.TxContext, logger log.Logger, steps ...QueueStep) *TxUpdateQueue {
	logger = logging.OrDiscard(logger).New("tx", txName)
	if len(steps) == 0 {
		steps = DefaultQueueSteps(logger)
	}
	return &TxUpdateQueue{
		env:    env,
		log:    logger,
		steps:  steps,
		maxLen: MaxQueueLen,
	}
}

// Apply runs the transaction on [txData]. Any error halts the transaction.
func (tx *TxUpdateQueue) Apply(txData []byte) error {
	if err := tx.EnsureQueueInitialized(); err != nil {
		return err
	}
	tx.log.Info("called with tx_data", "len", len(txData))
	update, err := tx.deserialize(txData)
	if err != nil {
		tx.log.Error("couldn't deserialize tx_data", "error", err)
		return err
	}
	return tx.UpdateQueue(update)
}

func (tx *TxUpdateQueue) deserialize(data []byte) (UpdateQueue, error) {
	signed, err := ToSigned(data)
	if err != nil {
		return UpdateQueue{}, err
	}
	tx.log.Debug("got signed", "len", len(signed.Data))
	update, err := ToUpdateQueue(signed.Data)
	if err != nil {
		return UpdateQueue{}, err
	}
	tx.log.Debug("deserialized update", "enqueue", len(update.Enqueue))
	return update, nil
}

// EnsureQueueInitialized writes an empty queue if none exists yet.
func (tx *TxUpdateQueue) EnsureQueueInitialized() error {
	queueKey := QueueKey()
	has, err := tx.env.HasKey(queueKey)
	if err != nil {
		return fmt.Errorf("couldn't check for queue: %w", err)
	}
	if has {
		tx.log.Debug("queue is present")
		return nil
	}
	tx.log.Info("initializing queue for the first time")
	return tx.env.Write(queueKey, &BridgeQueue{})
}

// UpdateQueue runs the queue steps and then appends [update]'s transfers in
// arrival order.
func (tx *TxUpdateQueue) UpdateQueue(update UpdateQueue) error {
	tx.log.Info("update_queue tx being executed", "enqueue", len(update.Enqueue))

	queue := BridgeQueue{}
	ok, err := tx.env.Read(QueueKey(), &queue)
	if err != nil {
		return fmt.Errorf("%w: %s", errQueueMissing, err)
	}
	if !ok {
		return errQueueMissing
	}
	tx.log.Debug("got queue", "len", len(queue.Transfers))

	for _, step := range tx.steps {
		queue, err = step.Apply(queue)
		if err != nil {
			return fmt.Errorf("queue step %s failed: %w", step.Name(), err)
		}
	}

	if len(queue.Transfers)+len(update.Enqueue) > tx.maxLen {
		return fmt.Errorf("%w: %d queued, %d new", errQueueFull, len(queue.Transfers), len(update.Enqueue))
	}
	queue.Transfers = append(queue.Transfers, update.Enqueue...)
	return tx.env.Write(QueueKey(), &queue)
}

// DefaultQueueSteps updates confirmation counts and then dequeues matured
// transfers for minting. Both are currently no-ops.
func DefaultQueueSteps(logger log.Logger) []QueueStep {
	return []QueueStep{
		&updateMinConfirmations{log: logger},
		&dequeueAndMint{log: logger},
	}
}

type updateMinConfirmations struct {
	log log.Logger
}

func (*updateMinConfirmations) Name() string { return "update_min_confirmations" }

func (s *updateMinConfirmations) Apply(queue BridgeQueue) (BridgeQueue, error) {
	s.log.Debug("minimum confirmations are not tracked yet", "queued", len(queue.Transfers))
	return queue, nil
}

type dequeueAndMint struct {
	log log.Logger
}

func (*dequeueAndMint) Name() string { return "dequeue_and_mint" }

// TODO: mint transfers whose confirmations reached MinConfirmations to their
// receivers through the Mint address, and drop them from the queue.
func (s *dequeueAndMint) Apply(queue BridgeQueue) (BridgeQueue, error) {
	s.log.Debug("no transfers are dequeued for minting yet", "queued", len(queue.Transfers))
	return queue, nil
}
