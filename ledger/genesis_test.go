// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"encoding/hex"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/crypto"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/pos"
	"github.com/ava-labs/bridgevm/types"
)

var (
	testToken = types.NewUserAddress(ids.ShortID{0xaa})
	alice     = types.NewUserAddress(ids.ShortID{1})
	bob       = types.NewUserAddress(ids.ShortID{2})
)

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

func (v testValidator) genesis(t *testing.T) GenesisValidator {
	pk, err := formatting.EncodeWithChecksum(formatting.Hex, v.key.PublicKey().Bytes())
	require.NoError(t, err)
	return GenesisValidator{
		Address:     v.address,
		Weight:      10,
		Active:      true,
		ProtocolKey: pk,
	}
}

func TestParseGenesis(t *testing.T) {
	require := require.New(t)

	genesis, err := ParseGenesis([]byte(`{
		"epoch": 2,
		"validators": [{"address": "user:` + alice.ID.String() + `", "weight": 5, "active": true}],
		"balances": [{"token": "user:` + testToken.ID.String() + `", "owner": "#Mint", "amount": 7}]
	}`))
	require.NoError(err)
	require.Equal(types.Epoch(2), genesis.Epoch)
	require.Len(genesis.Validators, 1)
	require.Equal(alice, genesis.Validators[0].Address)
	require.Equal(uint64(5), genesis.Validators[0].Weight)
	require.Len(genesis.Balances, 1)
	require.Equal(types.MintAddress, genesis.Balances[0].Owner)
	require.Equal(types.Amount(7), genesis.Balances[0].Amount)

	_, err = ParseGenesis([]byte(`{"validators": [{"address": "nope"}]}`))
	require.Error(err)
}

func TestGenesisValidatorSet(t *testing.T) {
	require := require.New(t)

	genesis := &Genesis{Validators: []GenesisValidator{
		{Address: bob, Weight: 1, Active: true},
		{Address: alice, Weight: 2},
	}}
	set, err := genesis.ValidatorSet()
	require.NoError(err)
	require.Equal([]pos.Validator{{Address: bob, Weight: 1}}, set.Active)
	require.Equal([]pos.Validator{{Address: alice, Weight: 2}}, set.Inactive)

	genesis.Validators[0].Active = false
	_, err = genesis.ValidatorSet()
	require.ErrorIs(err, errNoActiveValidators)
}

func TestGenesisApplied(t *testing.T) {
	require := require.New(t)

	vdr := newTestValidator(t)
	db := memdb.New()
	l, err := New(db, &Genesis{
		Epoch:      4,
		Validators: []GenesisValidator{vdr.genesis(t)},
		Balances:   []GenesisBalance{{Token: testToken, Owner: alice, Amount: 50}},
	}, logging.Discard())
	require.NoError(err)

	epoch, err := l.Epoch()
	require.NoError(err)
	require.Equal(types.Epoch(4), epoch)

	balance, err := l.Balance(testToken, alice)
	require.NoError(err)
	require.Equal(types.Amount(50), balance)

	var raw []byte
	ok, err := l.read(pos.ProtocolPKKey(vdr.address), &raw)
	require.NoError(err)
	require.True(ok)
	require.Equal(vdr.key.PublicKey().Bytes(), raw)

	// Reopening an initialized database ignores the genesis.
	l, err = New(db, nil, nil)
	require.NoError(err)
	epoch, err = l.Epoch()
	require.NoError(err)
	require.Equal(types.Epoch(4), epoch)
}

func TestGenesisRequired(t *testing.T) {
	_, err := New(memdb.New(), nil, nil)
	require.ErrorIs(t, err, errBadGenesis)
}

func TestGenesisBadProtocolKey(t *testing.T) {
	require := require.New(t)

	vdr := newTestValidator(t).genesis(t)
	db := memdb.New()

	// Hex without the checksum is rejected.
	vdr.ProtocolKey = "0x" + hex.EncodeToString(newTestValidator(t).key.PublicKey().Bytes())
	_, err := New(db, &Genesis{
		Validators: []GenesisValidator{vdr},
		Balances:   []GenesisBalance{{Token: testToken, Owner: alice, Amount: 1}},
	}, nil)
	require.Error(err)

	// Nothing of the failed genesis was committed.
	it := db.NewIterator()
	require.False(it.Next())
	it.Release()
}
