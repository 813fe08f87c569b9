// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pos holds the proof-of-stake data this module reads: the validator
// set of an epoch and the protocol key each validator registers.
package pos

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ava-labs/avalanchego/utils/crypto"

	"github.com/ava-labs/bridgevm/types"
)

const (
	validatorSegment   = "validator"
	protocolKeySegment = "protocol_public_key"
)

var (
	errDuplicateValidator = errors.New("validator appears more than once")

	keyFactory = crypto.FactorySECP256K1R{}
)

// Validator is a validator and its stake weight.
type Validator struct {
	Address types.Address `serialize:"true" json:"address"`
	Weight  uint64        `serialize:"true" json:"weight"`
}

// ValidatorSet is the validator set of a single epoch. Both partitions are
// kept in ascending address order.
type ValidatorSet struct {
	Active   []Validator `serialize:"true" json:"active"`
	Inactive []Validator `serialize:"true" json:"inactive"`
}

// NewValidatorSet returns the set with both partitions sorted. A validator
// may appear only once across the two partitions.
func NewValidatorSet(active, inactive []Validator) (ValidatorSet, error) {
	set := ValidatorSet{
		Active:   sortValidators(active),
		Inactive: sortValidators(inactive),
	}
	return set, set.Verify()
}

// Verify returns nil iff the set is canonical: sorted, without duplicates and
// with well formed addresses.
func (s ValidatorSet) Verify() error {
	seen := types.NewAddressSet()
	for _, partition := range [][]Validator{s.Active, s.Inactive} {
		for i, vdr := range partition {
			if err := vdr.Address.Verify(); err != nil {
				return fmt.Errorf("validator %d: %w", i, err)
			}
			if i > 0 && partition[i-1].Address.Compare(vdr.Address) >= 0 {
				return fmt.Errorf("validators not sorted at %s", vdr.Address)
			}
			if seen.Contains(vdr.Address) {
				return fmt.Errorf("%w: %s", errDuplicateValidator, vdr.Address)
			}
			seen.Add(vdr.Address)
		}
	}
	return nil
}

func sortValidators(vdrs []Validator) []Validator {
	sorted := make([]Validator, len(vdrs))
	copy(sorted, vdrs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Address.Compare(sorted[j].Address) < 0
	})
	return sorted
}

// ProtocolPKKey is where [addr] registers the key it signs protocol messages
// with.
func ProtocolPKKey(addr types.Address) types.Key {
	key, err := types.NewKey(
		types.AddressSegment(types.PoSAddress),
		validatorSegment,
		types.AddressSegment(addr),
		protocolKeySegment,
	)
	if err != nil {
		// address strings never contain the key separator
		panic(err)
	}
	return key
}

// KeyWriter stores typed values, encoding them with types.Codec.
type KeyWriter interface {
	Write(key types.Key, value interface{}) error
}

// RegisterProtocolKey stores [pk] as [addr]'s protocol key in the form
// DecodePublicKey reads.
func RegisterProtocolKey(w KeyWriter, addr types.Address, pk crypto.PublicKey) error {
	return w.Write(ProtocolPKKey(addr), pk.Bytes())
}

// DecodePublicKey parses a stored protocol key.
func DecodePublicKey(b []byte) (crypto.PublicKey, error) {
	var raw []byte
	if _, err := types.Codec.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("couldn't decode public key bytes: %w", err)
	}
	return ParsePublicKey(raw)
}

// ParsePublicKey parses a compressed secp256k1 public key.
func ParsePublicKey(raw []byte) (crypto.PublicKey, error) {
	return keyFactory.ToPublicKey(raw)
}
