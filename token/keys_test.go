// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/bridgevm/types"
)

func TestBalanceKey(t *testing.T) {
	require := require.New(t)

	token := types.NewUserAddress(ids.ShortID{0xaa})
	other := types.NewUserAddress(ids.ShortID{0xbb})
	owner := types.NewUserAddress(ids.ShortID{1})

	key := BalanceKey(token, owner)
	got, ok := IsBalanceKey(token, key)
	require.True(ok)
	require.Equal(owner, got)

	_, ok = IsBalanceKey(other, key)
	require.False(ok)

	got, ok = IsBalanceKey(token, BalanceKey(token, types.MintAddress))
	require.True(ok)
	require.Equal(types.MintAddress, got)

	tokenOf, ok := TokenOf(key)
	require.True(ok)
	require.Equal(token, tokenOf)

	require.NotEqual(BalanceKey(token, owner), BalanceKey(other, owner))
	require.NotEqual(BalanceKey(token, owner), BalanceKey(token, other))
}

func TestIsBalanceKeyRejects(t *testing.T) {
	require := require.New(t)

	token := types.NewUserAddress(ids.ShortID{0xaa})
	for _, key := range []types.Key{
		"",
		types.Key(token.String()),
		types.Key(token.String() + "/balance"),
		types.Key(token.String() + "/allowance/" + types.MintAddress.String()),
		types.Key(token.String() + "/balance/nobody"),
		types.Key(token.String() + "/balance/#Mint/extra"),
	} {
		_, ok := IsBalanceKey(token, key)
		require.False(ok, "key %q", key)
		_, ok = TokenOf(key)
		require.False(ok, "key %q", key)
	}
}
