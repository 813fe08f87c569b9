// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethbridge

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/bridgevm/types"
)

// AssetKind is the kind of Ethereum asset being bridged.
type AssetKind uint8

const (
	// Eth is native ether.
	Eth AssetKind = iota
	// Erc20 is an ERC20 token identified by its contract address.
	Erc20
)

// maxContractLen is the length of a 0x-prefixed hex Ethereum address.
const maxContractLen = 42

var (
	errUnknownAsset   = errors.New("unknown asset kind")
	errAssetAddress   = errors.New("asset address doesn't match its kind")
	errInvalidReceive = errors.New("invalid receiver")
)

// FungibleAsset is any fungible Ethereum asset.
type FungibleAsset struct {
	Kind AssetKind `serialize:"true" json:"kind"`
	// Contract is the ERC20 contract address, empty for Eth.
	Contract string `serialize:"true" json:"contract,omitempty"`
}

// Verify returns nil iff [a] is well formed.
func (a FungibleAsset) Verify() error {
	switch a.Kind {
	case Eth:
		if a.Contract != "" {
			return errAssetAddress
		}
	case Erc20:
		if a.Contract == "" || len(a.Contract) > maxContractLen {
			return errAssetAddress
		}
	default:
		return fmt.Errorf("%w: %d", errUnknownAsset, a.Kind)
	}
	return nil
}

// Block identifies an Ethereum block.
type Block struct {
	Height uint64 `serialize:"true" json:"height"`
	Hash   ids.ID `serialize:"true" json:"hash"`
}

// TransferFromEthereum is a transfer observed on Ethereum that is waiting to
// be minted here.
type TransferFromEthereum struct {
	Asset    FungibleAsset `serialize:"true" json:"asset"`
	Receiver types.Address `serialize:"true" json:"receiver"`
	Amount   types.Amount  `serialize:"true" json:"amount"`
	// MinConfirmations is the number of confirmations needed before minting.
	MinConfirmations uint8 `serialize:"true" json:"minConfirmations"`
	// Seen is the height of the block the transfer appeared in.
	Seen uint64 `serialize:"true" json:"seen"`
	// LatestDescendant is the latest descendant of Seen known to carry it.
	LatestDescendant Block `serialize:"true" json:"latestDescendant"`
}

// Verify returns nil iff [t] is well formed.
func (t TransferFromEthereum) Verify() error {
	if err := t.Asset.Verify(); err != nil {
		return err
	}
	if err := t.Receiver.Verify(); err != nil {
		return fmt.Errorf("%w: %s", errInvalidReceive, err)
	}
	return nil
}

// UpdateQueue carries the transfers to append to the queue.
type UpdateQueue struct {
	Enqueue []TransferFromEthereum `serialize:"true" json:"enqueue"`
}

// NewUpdateQueue returns an update enqueueing [transfers].
func NewUpdateQueue(transfers ...TransferFromEthereum) UpdateQueue {
	return UpdateQueue{Enqueue: transfers}
}

// Verify returns nil iff every transfer in [u] is well formed.
func (u UpdateQueue) Verify() error {
	for i, transfer := range u.Enqueue {
		if err := transfer.Verify(); err != nil {
			return fmt.Errorf("transfer %d: %w", i, err)
		}
	}
	return nil
}

// Bytes returns the wire encoding of [u].
func (u UpdateQueue) Bytes() ([]byte, error) {
	return types.Codec.Marshal(types.CodecVersion, &u)
}

// BridgeQueue is the ordered list of transfers awaiting minting.
type BridgeQueue struct {
	Transfers []TransferFromEthereum `serialize:"true" json:"transfers"`
}
