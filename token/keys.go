// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements token transfers and the validity predicate that
// keeps token balances conserved.
package token

import (
	"github.com/ava-labs/bridgevm/types"
)

// Balances are stored as
//
//	<token>/balance/<owner> => Amount
const balanceSegment = "balance"

// BalanceKey is where [owner]'s balance of [token] is stored.
func BalanceKey(token, owner types.Address) types.Key {
	key, err := types.NewKey(
		types.AddressSegment(token),
		balanceSegment,
		types.AddressSegment(owner),
	)
	if err != nil {
		panic(err)
	}
	return key
}

// IsBalanceKey returns the owner if [key] is a balance key of [token].
func IsBalanceKey(token types.Address, key types.Key) (types.Address, bool) {
	segments := key.Segments()
	if len(segments) != 3 ||
		segments[0] != types.AddressSegment(token) ||
		segments[1] != balanceSegment {
		return types.Address{}, false
	}
	owner, err := types.ParseAddress(segments[2])
	if err != nil {
		return types.Address{}, false
	}
	return owner, true
}

// TokenOf returns the token whose balance [key] holds, if it is a balance
// key of any token.
func TokenOf(key types.Key) (types.Address, bool) {
	segments := key.Segments()
	if len(segments) != 3 || segments[1] != balanceSegment {
		return types.Address{}, false
	}
	token, err := types.ParseAddress(segments[0])
	if err != nil {
		return types.Address{}, false
	}
	if _, ok := IsBalanceKey(token, key); !ok {
		return types.Address{}, false
	}
	return token, true
}
