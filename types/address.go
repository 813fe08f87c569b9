// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
)

// AddressKind distinguishes user-controlled from internal addresses.
type AddressKind uint8

const (
	UserAddress AddressKind = iota
	InternalAddressKind
)

// InternalAddress tags one of the protocol's fixed internal accounts.
type InternalAddress uint8

const (
	EthBridge InternalAddress = iota + 1
	PoS
	// Mint is the virtual source that tokens are created from.
	Mint
	// Burn is the virtual sink that tokens are destroyed into.
	Burn
)

const (
	userPrefix     = "user:"
	internalPrefix = "#"
)

var (
	errUnknownInternal = errors.New("unknown internal address")
	errAddressFormat   = errors.New("malformed address")

	internalNames = map[InternalAddress]string{
		EthBridge: "EthBridge",
		PoS:       "PoS",
		Mint:      "Mint",
		Burn:      "Burn",
	}
)

func (a InternalAddress) String() string {
	if name, ok := internalNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Internal(%d)", uint8(a))
}

// Valid reports whether [a] is one of the known internal addresses.
func (a InternalAddress) Valid() bool {
	_, ok := internalNames[a]
	return ok
}

// Address identifies an account. Exactly one of ID or Internal is
// meaningful, depending on Kind.
type Address struct {
	Kind     AddressKind     `serialize:"true"`
	ID       ids.ShortID     `serialize:"true"`
	Internal InternalAddress `serialize:"true"`
}

// NewUserAddress returns the address controlled by the key hashing to [id].
func NewUserAddress(id ids.ShortID) Address {
	return Address{Kind: UserAddress, ID: id}
}

// NewInternalAddress returns the address of the internal account [a].
func NewInternalAddress(a InternalAddress) Address {
	return Address{Kind: InternalAddressKind, Internal: a}
}

var (
	EthBridgeAddress = NewInternalAddress(EthBridge)
	PoSAddress       = NewInternalAddress(PoS)
	MintAddress      = NewInternalAddress(Mint)
	BurnAddress      = NewInternalAddress(Burn)
)

// IsInternal reports whether [a] is the internal address [internal].
func (a Address) IsInternal(internal InternalAddress) bool {
	return a.Kind == InternalAddressKind && a.Internal == internal
}

// Verify returns nil iff [a] is well formed.
func (a Address) Verify() error {
	switch a.Kind {
	case UserAddress:
		if a.Internal != 0 {
			return errAddressFormat
		}
		return nil
	case InternalAddressKind:
		if a.ID != ids.ShortEmpty {
			return errAddressFormat
		}
		if !a.Internal.Valid() {
			return errUnknownInternal
		}
		return nil
	default:
		return errAddressFormat
	}
}

// Compare orders addresses by kind, then by their identifying bytes.
func (a Address) Compare(other Address) int {
	switch {
	case a.Kind < other.Kind:
		return -1
	case a.Kind > other.Kind:
		return 1
	}
	if a.Kind == InternalAddressKind {
		switch {
		case a.Internal < other.Internal:
			return -1
		case a.Internal > other.Internal:
			return 1
		default:
			return 0
		}
	}
	return bytes.Compare(a.ID[:], other.ID[:])
}

func (a Address) String() string {
	if a.Kind == InternalAddressKind {
		return internalPrefix + a.Internal.String()
	}
	return userPrefix + a.ID.String()
}

// ParseAddress is the inverse of Address.String.
func ParseAddress(s string) (Address, error) {
	switch {
	case strings.HasPrefix(s, internalPrefix):
		name := strings.TrimPrefix(s, internalPrefix)
		for internal, n := range internalNames {
			if n == name {
				return NewInternalAddress(internal), nil
			}
		}
		return Address{}, fmt.Errorf("%w: %q", errUnknownInternal, s)
	case strings.HasPrefix(s, userPrefix):
		id, err := ids.ShortFromString(strings.TrimPrefix(s, userPrefix))
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q: %s", errAddressFormat, s, err)
		}
		return NewUserAddress(id), nil
	default:
		return Address{}, fmt.Errorf("%w: %q", errAddressFormat, s)
	}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
