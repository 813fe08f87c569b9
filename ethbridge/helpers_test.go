// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethbridge

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/bridgevm/pos"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/types"
)

const testEpoch = types.Epoch(3)

type testValidator struct {
	key     crypto.PrivateKey
	address types.Address
}

func newTestValidator(t *testing.T) testValidator {
	factory := crypto.FactorySECP256K1R{}
	key, err := factory.NewPrivateKey()
	require.NoError(t, err)
	return testValidator{
		key:     key,
		address: types.NewUserAddress(key.PublicKey().Address()),
	}
}

// newTestStorage records [active] and [inactive] as the validator set of
// testEpoch and registers the protocol keys of [registered].
func newTestStorage(t *testing.T, active, inactive, registered []testValidator) *state.Storage {
	require := require.New(t)

	s := state.New(memdb.New())
	require.NoError(s.SetEpoch(testEpoch))

	toValidators := func(vdrs []testValidator) []pos.Validator {
		res := make([]pos.Validator, len(vdrs))
		for i, vdr := range vdrs {
			res[i] = pos.Validator{Address: vdr.address, Weight: 1}
		}
		return res
	}
	set, err := pos.NewValidatorSet(toValidators(active), toValidators(inactive))
	require.NoError(err)
	require.NoError(s.PutValidatorSet(testEpoch, set))

	genesis := s.NewTx()
	for _, vdr := range registered {
		require.NoError(pos.RegisterProtocolKey(genesis.Env(), vdr.address, vdr.key.PublicKey()))
	}
	require.NoError(genesis.Commit())
	return s
}

func testTransfer(n byte) TransferFromEthereum {
	return TransferFromEthereum{
		Asset:            FungibleAsset{Kind: Erc20, Contract: "0x6B175474E89094C44Da98b954EedeAC495271d0F"},
		Receiver:         types.NewUserAddress(ids.ShortID{n}),
		Amount:           types.Amount(100 * uint64(n)),
		MinConfirmations: 12,
		Seen:             1000 + uint64(n),
		LatestDescendant: Block{Height: 1010 + uint64(n), Hash: ids.ID{n, 0xff}},
	}
}
