// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vp

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/pos"
	"github.com/ava-labs/bridgevm/proto"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/types"
)

const testEpoch = types.Epoch(2)

func newKey(t *testing.T) crypto.PrivateKey {
	factory := crypto.FactorySECP256K1R{}
	key, err := factory.NewPrivateKey()
	require.NoError(t, err)
	return key
}

func addressOf(key crypto.PrivateKey) types.Address {
	return types.NewUserAddress(key.PublicKey().Address())
}

// newTestStorage records [active] and [inactive] for testEpoch and registers
// the protocol keys of [registered].
func newTestStorage(t *testing.T, active, inactive, registered []crypto.PrivateKey) *state.Storage {
	require := require.New(t)

	toValidators := func(keys []crypto.PrivateKey) []pos.Validator {
		vdrs := make([]pos.Validator, len(keys))
		for i, key := range keys {
			vdrs[i] = pos.Validator{Address: addressOf(key), Weight: 1}
		}
		return vdrs
	}

	s := state.New(memdb.New())
	require.NoError(s.SetEpoch(testEpoch))
	set, err := pos.NewValidatorSet(toValidators(active), toValidators(inactive))
	require.NoError(err)
	require.NoError(s.PutValidatorSet(testEpoch, set))

	tx := s.NewTx()
	for _, key := range registered {
		require.NoError(pos.RegisterProtocolKey(tx.Env(), addressOf(key), key.PublicKey()))
	}
	require.NoError(tx.Commit())
	return s
}

func TestSignedByActiveValidator(t *testing.T) {
	active := newKey(t)
	unregistered := newKey(t)
	inactive := newKey(t)
	s := newTestStorage(t,
		[]crypto.PrivateKey{active, unregistered},
		[]crypto.PrivateKey{inactive},
		[]crypto.PrivateKey{active, inactive},
	)

	tests := []struct {
		name     string
		signer   crypto.PrivateKey
		accepted bool
	}{
		{name: "active registered", signer: active, accepted: true},
		{name: "active unregistered", signer: unregistered, accepted: false},
		{name: "inactive", signer: inactive, accepted: false},
		{name: "unknown", signer: newKey(t), accepted: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			signed, err := proto.Sign(test.signer, []byte("payload"))
			require.NoError(err)
			accepted, err := SignedByActiveValidator(s.NewTx().View(), logging.Discard(), signed)
			require.NoError(err)
			require.Equal(test.accepted, accepted)
		})
	}
}

func TestSignedByActiveValidatorNoValidatorSet(t *testing.T) {
	require := require.New(t)

	s := state.New(memdb.New())
	signed, err := proto.Sign(newKey(t), []byte("payload"))
	require.NoError(err)

	_, err = SignedByActiveValidator(s.NewTx().View(), logging.Discard(), signed)
	require.Equal(ErrInternal, err)

	require.NoError(s.SetEpoch(testEpoch))
	_, err = SignedByActiveValidator(s.NewTx().View(), logging.Discard(), signed)
	require.Equal(ErrInternal, err)
}

func TestActiveProtocolKeysOrder(t *testing.T) {
	require := require.New(t)

	a, b, c := newKey(t), newKey(t), newKey(t)
	s := newTestStorage(t, []crypto.PrivateKey{c, b, a}, nil, []crypto.PrivateKey{a, c})

	set, err := s.GetValidatorSet(testEpoch)
	require.NoError(err)

	keys := activeProtocolKeys(s.NewTx().View(), logging.Discard(), set)
	require.Len(keys, 2)
	require.Equal(-1, keys[0].validator.Compare(keys[1].validator))
	for _, key := range keys {
		require.NotEqual(addressOf(b), key.validator)
	}
}
