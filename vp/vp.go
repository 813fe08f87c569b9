// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vp defines the protocol every native validity predicate follows.
package vp

import (
	"errors"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/bridgevm/types"
)

// ErrInternal is the only error a validity predicate returns. It tells the
// caller nothing beyond "this node's storage is inconsistent"; the details
// go to the local log.
var ErrInternal = errors.New("internal error")

// NativeVP decides whether the storage changes a transaction made are
// allowed.
//
// ValidateTx returns (false, nil) for every expected rejection, such as
// malformed data, unexpected keys or a bad signature. It returns ErrInternal
// only when storage is inconsistent. Implementations must be deterministic:
// they may read only the storage view they were built with and must iterate
// [keysChanged] and [verifiers] in their sorted order.
type NativeVP interface {
	// Address is the account whose storage this VP guards.
	Address() types.Address

	ValidateTx(txData []byte, keysChanged types.KeySet, verifiers types.AddressSet) (bool, error)
}

// Check runs [v] and fails closed: any error, whatever its origin, rejects
// the transaction and is reported as ErrInternal.
func Check(logger log.Logger, v NativeVP, txData []byte, keysChanged types.KeySet, verifiers types.AddressSet) (bool, error) {
	logger.Info("validity predicate triggered",
		"vp", v.Address(),
		"txDataLen", len(txData),
		"keysChangedLen", keysChanged.Len(),
		"verifiersLen", verifiers.Len(),
	)
	accepted, err := v.ValidateTx(txData, keysChanged, verifiers)
	if err != nil {
		if !errors.Is(err, ErrInternal) {
			logger.Error("validity predicate returned unexpected error", "vp", v.Address(), "error", err)
		}
		return false, ErrInternal
	}
	return accepted, nil
}
