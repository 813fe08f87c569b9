// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/proto"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/types"
)

var (
	testToken = types.NewUserAddress(ids.ShortID{0xaa})
	alice     = types.NewUserAddress(ids.ShortID{1})
	bob       = types.NewUserAddress(ids.ShortID{2})
	carol     = types.NewUserAddress(ids.ShortID{3})
)

// newTestStorage commits the given balances of testToken.
func newTestStorage(t *testing.T, balances map[types.Address]types.Amount) *state.Storage {
	require := require.New(t)

	s := state.New(memdb.New())
	genesis := s.NewTx()
	for owner, amount := range balances {
		require.NoError(genesis.Env().Write(BalanceKey(testToken, owner), amount))
	}
	require.NoError(genesis.Commit())
	return s
}

func balanceOf(t *testing.T, env state.TxContext, owner types.Address) types.Amount {
	var amount types.Amount
	_, err := env.Read(BalanceKey(testToken, owner), &amount)
	require.NoError(t, err)
	return amount
}

func TestApplyTransfer(t *testing.T) {
	require := require.New(t)

	s := newTestStorage(t, map[types.Address]types.Amount{alice: 100, bob: 5})
	tx := s.NewTx()
	require.NoError(ApplyTransfer(tx.Env(), logging.Discard(), Transfer{
		Source: alice,
		Target: bob,
		Token:  testToken,
		Amount: 30,
	}))
	require.Equal(types.Amount(70), balanceOf(t, tx.Env(), alice))
	require.Equal(types.Amount(35), balanceOf(t, tx.Env(), bob))
	require.Equal(
		[]types.Key{BalanceKey(testToken, alice), BalanceKey(testToken, bob)},
		tx.KeysChanged().List(),
	)
}

func TestApplyTransferMintWritesTemp(t *testing.T) {
	require := require.New(t)

	s := newTestStorage(t, nil)
	tx := s.NewTx()
	require.NoError(ApplyTransfer(tx.Env(), logging.Discard(), Transfer{
		Source: types.MintAddress,
		Target: alice,
		Token:  testToken,
		Amount: 40,
	}))
	require.Equal(types.Amount(40), balanceOf(t, tx.Env(), alice))

	mintKey := BalanceKey(testToken, types.MintAddress)
	_, ok, err := tx.View().ReadPost(mintKey)
	require.NoError(err)
	require.False(ok)
	value, ok, err := tx.View().ReadTemp(mintKey)
	require.NoError(err)
	require.True(ok)
	amount, err := decodeAmount(value)
	require.NoError(err)
	require.Equal(types.MaxAmount-40, amount)
}

func TestApplyTransferBurnWritesTemp(t *testing.T) {
	require := require.New(t)

	s := newTestStorage(t, map[types.Address]types.Amount{alice: 10})
	tx := s.NewTx()
	require.NoError(ApplyTransfer(tx.Env(), logging.Discard(), Transfer{
		Source: alice,
		Target: types.BurnAddress,
		Token:  testToken,
		Amount: 10,
	}))

	burnKey := BalanceKey(testToken, types.BurnAddress)
	_, ok, err := tx.View().ReadPost(burnKey)
	require.NoError(err)
	require.False(ok)
	_, ok, err = tx.View().ReadTemp(burnKey)
	require.NoError(err)
	require.True(ok)
}

func TestApplyTransferFatal(t *testing.T) {
	s := newTestStorage(t, map[types.Address]types.Amount{alice: 10})

	tests := []struct {
		name     string
		transfer Transfer
		err      error
	}{
		{
			name:     "source without balance",
			transfer: Transfer{Source: carol, Target: bob, Token: testToken, Amount: 1},
			err:      errNoBalance,
		},
		{
			name:     "from burn",
			transfer: Transfer{Source: types.BurnAddress, Target: bob, Token: testToken, Amount: 1},
			err:      errTransferFromBurn,
		},
		{
			name:     "to mint",
			transfer: Transfer{Source: alice, Target: types.MintAddress, Token: testToken, Amount: 1},
			err:      errTransferToMint,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ApplyTransfer(s.NewTx().Env(), logging.Discard(), test.transfer)
			require.ErrorIs(t, err, test.err)
		})
	}

	t.Run("insufficient balance", func(t *testing.T) {
		err := ApplyTransfer(s.NewTx().Env(), logging.Discard(), Transfer{
			Source: alice, Target: bob, Token: testToken, Amount: 11,
		})
		require.Error(t, err)
	})
}

func TestTxTransferApply(t *testing.T) {
	require := require.New(t)

	factory := crypto.FactorySECP256K1R{}
	key, err := factory.NewPrivateKey()
	require.NoError(err)

	transfer := Transfer{Source: alice, Target: bob, Token: testToken, Amount: 7}
	txData, err := transfer.Sign(key)
	require.NoError(err)

	signed, err := proto.DecodeSigned(txData)
	require.NoError(err)
	decoded, err := ToTransfer(signed.Data)
	require.NoError(err)
	require.Equal(transfer, decoded)

	s := newTestStorage(t, map[types.Address]types.Amount{alice: 10})
	tx := s.NewTx()
	require.NoError(NewTxTransfer(tx.Env(), logging.Discard()).Apply(txData))
	require.Equal(types.Amount(3), balanceOf(t, tx.Env(), alice))
	require.Equal(types.Amount(7), balanceOf(t, tx.Env(), bob))

	require.Error(NewTxTransfer(tx.Env(), logging.Discard()).Apply(txData[:len(txData)-1]))
}

func TestToTransferRejectsBadAddress(t *testing.T) {
	require := require.New(t)

	b, err := Transfer{
		Source: types.Address{Kind: types.InternalAddressKind, Internal: 42},
		Target: bob,
		Token:  testToken,
		Amount: 1,
	}.Bytes()
	require.NoError(err)

	_, err = ToTransfer(b)
	require.ErrorIs(err, errMalformedTx)
}
