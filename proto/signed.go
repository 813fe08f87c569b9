// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package proto carries authenticated payloads between transactions and the
// validity predicates that check them.
package proto

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/crypto"

	"github.com/ava-labs/bridgevm/types"
)

var (
	// ErrMalformed is returned when the envelope itself can't be decoded.
	ErrMalformed = errors.New("malformed signed data")
	// ErrEmptyData is returned when the envelope decodes but carries no payload.
	ErrEmptyData = errors.New("empty data")
)

// Signed binds [Data] to a signature over exactly those bytes. The signer's
// key is never part of the envelope: consumers verify against a key they
// obtained on their own.
type Signed struct {
	Data []byte `serialize:"true"`
	Sig  []byte `serialize:"true"`
}

// Sign signs [data] with [key].
func Sign(key crypto.PrivateKey, data []byte) (*Signed, error) {
	sig, err := key.Sign(data)
	if err != nil {
		return nil, fmt.Errorf("couldn't sign data: %w", err)
	}
	return &Signed{Data: data, Sig: sig}, nil
}

// DecodeSigned parses [b] as an envelope. The signature is not checked.
func DecodeSigned(b []byte) (*Signed, error) {
	signed := &Signed{}
	if _, err := types.Codec.Unmarshal(b, signed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	if len(signed.Data) == 0 {
		return nil, ErrEmptyData
	}
	return signed, nil
}

// Bytes returns the wire encoding of [s].
func (s *Signed) Bytes() ([]byte, error) {
	return types.Codec.Marshal(types.CodecVersion, s)
}

// Signer recovers the address whose key produced [s.Sig] over [s.Data].
func (s *Signed) Signer() (types.Address, error) {
	factory := crypto.FactorySECP256K1R{}
	pk, err := factory.RecoverPublicKey(s.Data, s.Sig)
	if err != nil {
		return types.Address{}, fmt.Errorf("couldn't recover signer: %w", err)
	}
	return types.NewUserAddress(pk.Address()), nil
}

// Verify reports whether [s.Sig] is a signature of [s.Data] by [pk].
func (s *Signed) Verify(pk crypto.PublicKey) bool {
	return pk.Verify(s.Data, s.Sig)
}
