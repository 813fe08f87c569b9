// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/formatting"

	"github.com/ava-labs/bridgevm/pos"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/token"
	"github.com/ava-labs/bridgevm/types"
)

var errNoActiveValidators = errors.New("genesis has no active validator")

// GenesisValidator is a validator of the genesis epoch.
type GenesisValidator struct {
	Address types.Address `json:"address"`
	Weight  uint64        `json:"weight"`
	Active  bool          `json:"active"`
	// ProtocolKey is the compressed secp256k1 key the validator signs bridge
	// updates with, hex encoded with a trailing 4-byte checksum as produced by
	// formatting.EncodeWithChecksum. It may be left empty.
	ProtocolKey string `json:"protocolKey,omitempty"`
}

// GenesisBalance is an initial token balance.
type GenesisBalance struct {
	Token  types.Address `json:"token"`
	Owner  types.Address `json:"owner"`
	Amount types.Amount  `json:"amount"`
}

// Genesis is the initial state of the ledger.
type Genesis struct {
	Epoch      types.Epoch        `json:"epoch"`
	Validators []GenesisValidator `json:"validators"`
	Balances   []GenesisBalance   `json:"balances"`
}

// ParseGenesis decodes a JSON genesis.
func ParseGenesis(b []byte) (*Genesis, error) {
	genesis := &Genesis{}
	if err := json.Unmarshal(b, genesis); err != nil {
		return nil, fmt.Errorf("couldn't parse genesis: %w", err)
	}
	return genesis, nil
}

// ValidatorSet returns the validator set of the genesis epoch.
func (g *Genesis) ValidatorSet() (pos.ValidatorSet, error) {
	var active, inactive []pos.Validator
	for _, vdr := range g.Validators {
		v := pos.Validator{Address: vdr.Address, Weight: vdr.Weight}
		if vdr.Active {
			active = append(active, v)
		} else {
			inactive = append(inactive, v)
		}
	}
	if len(active) == 0 {
		return pos.ValidatorSet{}, errNoActiveValidators
	}
	return pos.NewValidatorSet(active, inactive)
}

// apply writes [g] into [s], marks [s] initialized and commits both in one
// flush. On error nothing is committed.
func (g *Genesis) apply(s *state.Storage) error {
	set, err := g.ValidatorSet()
	if err != nil {
		return err
	}
	if err := s.SetEpoch(g.Epoch); err != nil {
		return err
	}
	if err := s.PutValidatorSet(g.Epoch, set); err != nil {
		return err
	}

	tx := s.NewTx()
	env := tx.Env()
	for _, vdr := range g.Validators {
		if vdr.ProtocolKey == "" {
			continue
		}
		keyBytes, err := formatting.Decode(formatting.Hex, vdr.ProtocolKey)
		if err != nil {
			return fmt.Errorf("couldn't decode protocol key of %s: %w", vdr.Address, err)
		}
		pk, err := pos.ParsePublicKey(keyBytes)
		if err != nil {
			return fmt.Errorf("invalid protocol key of %s: %w", vdr.Address, err)
		}
		if err := pos.RegisterProtocolKey(env, vdr.Address, pk); err != nil {
			return err
		}
	}
	for _, balance := range g.Balances {
		if err := env.Write(token.BalanceKey(balance.Token, balance.Owner), balance.Amount); err != nil {
			return err
		}
	}
	if err := s.SetInitialized(); err != nil {
		return fmt.Errorf("error while setting db to initialized: %w", err)
	}
	return tx.Commit()
}
