// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vp

import (
	"github.com/ava-labs/avalanchego/utils/crypto"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/bridgevm/pos"
	"github.com/ava-labs/bridgevm/proto"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/types"
)

// SignedByActiveValidator reports whether [signed] verifies against the
// protocol key of any active validator of the current epoch. The first
// matching key wins. Failing to read the epoch or its validator set is
// ErrInternal.
func SignedByActiveValidator(ctx state.VPContext, logger log.Logger, signed *proto.Signed) (bool, error) {
	epoch, err := ctx.CurrentEpoch()
	if err != nil {
		logger.Error("couldn't get block epoch", "error", err)
		return false, ErrInternal
	}
	validators, err := ctx.ValidatorSet(epoch)
	if err != nil {
		logger.Error("got no validators for epoch", "epoch", epoch, "error", err)
		return false, ErrInternal
	}

	for _, key := range activeProtocolKeys(ctx, logger, validators) {
		if signed.Verify(key.publicKey) {
			logger.Info("signature matches active validator", "validator", key.validator)
			return true, nil
		}
		logger.Debug("signature did not verify for active validator", "validator", key.validator)
	}
	logger.Warn("data was not signed by any active validator", "epoch", epoch)
	return false, nil
}

type protocolKey struct {
	validator types.Address
	publicKey crypto.PublicKey
}

// activeProtocolKeys resolves the protocol key of every active validator, in
// the set's order. Validators whose key is missing or undecodable are
// skipped.
func activeProtocolKeys(ctx state.VPContext, logger log.Logger, validators pos.ValidatorSet) []protocolKey {
	resolved := make([]*protocolKey, len(validators.Active))
	for i, validator := range validators.Active {
		resolved[i] = resolveProtocolKey(ctx, logger, validator.Address)
	}

	keys := make([]protocolKey, 0, len(resolved))
	for _, key := range resolved {
		if key != nil {
			keys = append(keys, *key)
		}
	}
	return keys
}

func resolveProtocolKey(ctx state.VPContext, logger log.Logger, addr types.Address) *protocolKey {
	value, ok, err := ctx.ReadVerbatim(pos.ProtocolPKKey(addr))
	switch {
	case err != nil:
		logger.Error("couldn't read storage to get validator's public key", "validator", addr, "error", err)
		return nil
	case !ok:
		logger.Error("read storage for validator's public key but it was empty", "validator", addr)
		return nil
	}
	publicKey, err := pos.DecodePublicKey(value)
	if err != nil {
		logger.Error("couldn't deserialize public key for validator", "validator", addr, "error", err)
		return nil
	}
	logger.Debug("got public key for validator", "validator", addr)
	return &protocolKey{validator: addr, publicKey: publicKey}
}
