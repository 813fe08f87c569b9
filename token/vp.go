// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/types"
	"github.com/ava-labs/bridgevm/vp"
)

var _ vp.NativeVP = &VP{}

// VP keeps the balances of one token conserved. Tokens enter circulation
// only by being debited from the mint address and leave it only by being
// credited to the burn address.
type VP struct {
	ctx   state.VPContext
	token types.Address
	log   log.Logger
}

// NewVP returns the VP of [token] reading from [ctx].
func NewVP(ctx state.VPContext, token types.Address, logger log.Logger) *VP {
	return &VP{
		ctx:   ctx,
		token: token,
		log:   logging.OrDiscard(logger).New("vp", token),
	}
}

func (v *VP) Address() types.Address { return v.token }

func (v *VP) ValidateTx(_ []byte, keysChanged types.KeySet, verifiers types.AddressSet) (bool, error) {
	total := types.Amount(0).Change()
	for _, key := range keysChanged.List() {
		owner, ok := IsBalanceKey(v.token, key)
		if !ok {
			v.log.Info("rejecting change to non-balance key", "key", key)
			return false, nil
		}

		pre, err := v.preBalance(key, owner)
		if err != nil {
			v.log.Error("couldn't read pre-state balance", "key", key, "error", err)
			return false, vp.ErrInternal
		}
		post, ok, err := v.postBalance(key, owner)
		if err != nil {
			v.log.Error("couldn't read post-state balance", "key", key, "error", err)
			return false, vp.ErrInternal
		}
		if !ok {
			return false, nil
		}

		change, err := post.Change().Sub(pre.Change())
		if err != nil {
			v.log.Warn("balance change overflowed", "key", key, "error", err)
			return false, nil
		}
		total, err = total.Add(change)
		if err != nil {
			v.log.Warn("total change overflowed", "key", key, "error", err)
			return false, nil
		}

		// The mint address is debited whenever tokens are minted, with no
		// one to sign for it.
		if change.Sign() < 0 && !owner.IsInternal(types.Mint) && !verifiers.Contains(owner) {
			v.log.Info("debit not authorized by owner", "owner", owner, "change", change)
			return false, nil
		}
	}

	if !total.IsZero() {
		v.log.Info("balances not conserved", "change", total)
		return false, nil
	}
	return true, nil
}

// preBalance reads [owner]'s balance before the transaction. Mint holds every
// token that doesn't yet exist and Burn never holds anything.
func (v *VP) preBalance(key types.Key, owner types.Address) (types.Amount, error) {
	switch {
	case owner.IsInternal(types.Mint):
		return types.MaxAmount, nil
	case owner.IsInternal(types.Burn):
		return 0, nil
	}
	value, ok, err := v.ctx.ReadPre(key)
	if err != nil || !ok {
		return 0, err
	}
	return decodeAmount(value)
}

// postBalance reads [owner]'s balance after the transaction. Mint and Burn
// are read from the temp view. A value the transaction wrote that doesn't
// decode is reported as not ok, which rejects the transaction.
func (v *VP) postBalance(key types.Key, owner types.Address) (types.Amount, bool, error) {
	read := v.ctx.ReadPost
	if owner.IsInternal(types.Mint) || owner.IsInternal(types.Burn) {
		read = v.ctx.ReadTemp
	}
	value, found, err := read(key)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, true, nil
	}
	amount, err := decodeAmount(value)
	if err != nil {
		v.log.Warn("couldn't decode post-state balance", "key", key, "error", err)
		return 0, false, nil
	}
	return amount, true, nil
}

func decodeAmount(b []byte) (types.Amount, error) {
	var amount types.Amount
	_, err := types.Codec.Unmarshal(b, &amount)
	return amount, err
}
