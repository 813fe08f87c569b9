// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"errors"
	"fmt"
	"math"

	"github.com/holiman/uint256"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

// Epoch is the ledger's monotonic unit of time.
type Epoch uint64

// Amount is a non-negative token quantity.
type Amount uint64

// MaxAmount is the balance the mint address is treated as holding.
const MaxAmount = Amount(math.MaxUint64)

var errChangeOverflow = errors.New("change overflowed")

// Spend returns [a] reduced by [amount], or an error on underflow.
func (a Amount) Spend(amount Amount) (Amount, error) {
	res, err := safemath.Sub64(uint64(a), uint64(amount))
	if err != nil {
		return 0, fmt.Errorf("couldn't spend %d from %d: %w", amount, a, err)
	}
	return Amount(res), nil
}

// Receive returns [a] increased by [amount], or an error on overflow.
func (a Amount) Receive(amount Amount) (Amount, error) {
	res, err := safemath.Add64(uint64(a), uint64(amount))
	if err != nil {
		return 0, fmt.Errorf("couldn't receive %d into %d: %w", amount, a, err)
	}
	return Amount(res), nil
}

// Change widens [a] into a signed delta.
func (a Amount) Change() Change {
	var c Change
	c.v.SetUint64(uint64(a))
	return c
}

// Change is a signed balance delta, held as a 256 bit two's complement
// integer. Arithmetic on it is checked.
type Change struct {
	v uint256.Int
}

func (c Change) negative() bool { return c.v.Sign() < 0 }

// Add returns c + other, or an error if the signed result overflows.
func (c Change) Add(other Change) (Change, error) {
	var res Change
	res.v.Add(&c.v, &other.v)
	if c.negative() == other.negative() && res.negative() != c.negative() {
		return Change{}, errChangeOverflow
	}
	return res, nil
}

// Sub returns c - other, or an error if the signed result overflows.
func (c Change) Sub(other Change) (Change, error) {
	var res Change
	res.v.Sub(&c.v, &other.v)
	if c.negative() != other.negative() && res.negative() != c.negative() {
		return Change{}, errChangeOverflow
	}
	return res, nil
}

// Sign returns -1, 0 or 1.
func (c Change) Sign() int { return c.v.Sign() }

func (c Change) IsZero() bool { return c.v.IsZero() }

func (c Change) String() string {
	if !c.negative() {
		return c.v.ToBig().String()
	}
	var abs uint256.Int
	abs.Neg(&c.v)
	return "-" + abs.ToBig().String()
}
