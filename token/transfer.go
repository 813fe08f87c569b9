// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/crypto"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/proto"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/types"
)

const txName = "tx_transfer"

var (
	errNoBalance        = errors.New("source has no balance")
	errTransferFromBurn = errors.New("invalid transfer from the burn address")
	errTransferToMint   = errors.New("invalid transfer to the mint address")
	errMalformedTx      = errors.New("malformed transfer")
)

// Transfer moves [Amount] of [Token] from [Source] to [Target].
type Transfer struct {
	Source types.Address `serialize:"true" json:"source"`
	Target types.Address `serialize:"true" json:"target"`
	Token  types.Address `serialize:"true" json:"token"`
	Amount types.Amount  `serialize:"true" json:"amount"`
}

// Bytes returns the wire encoding of [t].
func (t Transfer) Bytes() ([]byte, error) {
	return types.Codec.Marshal(types.CodecVersion, &t)
}

// Sign encodes [t] and wraps it in an envelope signed by [key].
func (t Transfer) Sign(key crypto.PrivateKey) ([]byte, error) {
	payload, err := t.Bytes()
	if err != nil {
		return nil, err
	}
	signed, err := proto.Sign(key, payload)
	if err != nil {
		return nil, err
	}
	return signed.Bytes()
}

// ToTransfer decodes the payload of a signed envelope.
func ToTransfer(data []byte) (Transfer, error) {
	transfer := Transfer{}
	if _, err := types.Codec.Unmarshal(data, &transfer); err != nil {
		return Transfer{}, fmt.Errorf("%w: %s", errMalformedTx, err)
	}
	for _, addr := range []types.Address{transfer.Source, transfer.Target, transfer.Token} {
		if err := addr.Verify(); err != nil {
			return Transfer{}, fmt.Errorf("%w: %s", errMalformedTx, err)
		}
	}
	return transfer, nil
}

// TxTransfer is the token transfer transaction.
type TxTransfer struct {
	env state.TxContext
	log log.Logger
}

// NewTxTransfer returns the transaction writing through [env].
func NewTxTransfer(env state.TxContext, logger log.Logger) *TxTransfer {
	return &TxTransfer{
		env: env,
		log: logging.OrDiscard(logger).New("tx", txName),
	}
}

// Apply decodes the signed transfer in [txData] and performs it. Any error
// halts the transaction.
func (tx *TxTransfer) Apply(txData []byte) error {
	signed, err := proto.DecodeSigned(txData)
	if err != nil {
		return err
	}
	transfer, err := ToTransfer(signed.Data)
	if err != nil {
		return err
	}
	tx.log.Debug("apply_tx called with transfer",
		"source", transfer.Source,
		"target", transfer.Target,
		"token", transfer.Token,
		"amount", transfer.Amount,
	)
	return ApplyTransfer(tx.env, tx.log, transfer)
}

// ApplyTransfer debits the source's balance and credits the target's. The
// mint address is an unbounded source and the burn address an unbounded
// sink; both are written to the temp view and never committed.
//
// Callers are expected to have checked that an ordinary source can afford
// the transfer, so a missing or short balance is reported as an error.
func ApplyTransfer(env state.TxContext, logger log.Logger, transfer Transfer) error {
	src, dest := transfer.Source, transfer.Target
	switch {
	case src.IsInternal(types.Burn):
		logger.Error("invalid transfer from the burn address")
		return errTransferFromBurn
	case dest.IsInternal(types.Mint):
		logger.Error("invalid transfer to the mint address")
		return errTransferToMint
	}

	srcKey := BalanceKey(transfer.Token, src)
	destKey := BalanceKey(transfer.Token, dest)

	var srcBal types.Amount
	ok, err := env.Read(srcKey, &srcBal)
	if err != nil {
		return err
	}
	if !ok {
		if !src.IsInternal(types.Mint) {
			logger.Error("source has no balance", "source", src)
			return fmt.Errorf("%w: %s", errNoBalance, src)
		}
		srcBal = types.MaxAmount
	}
	srcBal, err = srcBal.Spend(transfer.Amount)
	if err != nil {
		return err
	}

	var destBal types.Amount
	if _, err := env.Read(destKey, &destBal); err != nil {
		return err
	}
	destBal, err = destBal.Receive(transfer.Amount)
	if err != nil {
		return err
	}

	if src.IsInternal(types.Mint) {
		err = env.WriteTemp(srcKey, srcBal)
	} else {
		err = env.Write(srcKey, srcBal)
	}
	if err != nil {
		return err
	}

	if dest.IsInternal(types.Burn) {
		return env.WriteTemp(destKey, destBal)
	}
	return env.Write(destKey, destBal)
}
