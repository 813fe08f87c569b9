// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/types"
)

type stubVP struct {
	accepted bool
	err      error
}

func (s *stubVP) Address() types.Address { return types.EthBridgeAddress }

func (s *stubVP) ValidateTx([]byte, types.KeySet, types.AddressSet) (bool, error) {
	return s.accepted, s.err
}

func TestCheckPassesOutcome(t *testing.T) {
	require := require.New(t)

	for _, accepted := range []bool{true, false} {
		got, err := Check(logging.Discard(), &stubVP{accepted: accepted}, nil, types.KeySet{}, types.AddressSet{})
		require.NoError(err)
		require.Equal(accepted, got)
	}
}

func TestCheckFailsClosed(t *testing.T) {
	require := require.New(t)

	errs := []error{ErrInternal, errors.New("disk on fire")}
	for _, vpErr := range errs {
		// A VP that reports acceptance alongside an error is still rejected.
		got, err := Check(logging.Discard(), &stubVP{accepted: true, err: vpErr}, nil, types.KeySet{}, types.AddressSet{})
		require.ErrorIs(err, ErrInternal)
		require.Equal(ErrInternal, err)
		require.False(got)
	}
}
