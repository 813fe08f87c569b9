// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethbridge

import (
	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/types"
	"github.com/ava-labs/bridgevm/vp"
)

var _ vp.NativeVP = &VP{}

// VP guards the bridge queue. A change is accepted when it touches only the
// queue key and the transaction data is signed by any one active validator of
// the current epoch.
type VP struct {
	ctx state.VPContext
	log log.Logger
}

// NewVP returns the bridge VP reading from [ctx].
func NewVP(ctx state.VPContext, logger log.Logger) *VP {
	return &VP{
		ctx: ctx,
		log: logging.OrDiscard(logger).New("vp", Address),
	}
}

func (v *VP) Address() types.Address { return Address }

func (v *VP) ValidateTx(txData []byte, keysChanged types.KeySet, verifiers types.AddressSet) (bool, error) {
	if !v.validateKeysChanged(keysChanged) {
		return false, nil
	}

	signed, err := ToSigned(txData)
	if err != nil {
		v.log.Warn("couldn't deserialize signed data", "error", err)
		return false, nil
	}
	v.log.Debug("deserialized signed data", "len", len(signed.Data))

	return vp.SignedByActiveValidator(v.ctx, v.log, signed)
}

// validateKeysChanged reports whether [keysChanged] is exactly the queue key.
func (v *VP) validateKeysChanged(keysChanged types.KeySet) bool {
	queueKey := QueueKey()
	for _, key := range keysChanged.List() {
		if key != queueKey {
			v.log.Info("rejecting change to key", "key", key)
			return false
		}
	}
	return keysChanged.Len() == 1
}
