// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/bridgevm/logging"
	"github.com/ava-labs/bridgevm/proto"
	"github.com/ava-labs/bridgevm/state"
	"github.com/ava-labs/bridgevm/types"
	"github.com/ava-labs/bridgevm/vp"
)

var _ vp.NativeVP = &MintVP{}

// MintVP guards the mint address of every token. Tokens may only be minted
// by a transaction signed by an active validator of the current epoch.
type MintVP struct {
	ctx state.VPContext
	log log.Logger
}

// NewMintVP returns the mint VP reading from [ctx].
func NewMintVP(ctx state.VPContext, logger log.Logger) *MintVP {
	return &MintVP{
		ctx: ctx,
		log: logging.OrDiscard(logger).New("vp", types.MintAddress),
	}
}

func (v *MintVP) Address() types.Address { return types.MintAddress }

func (v *MintVP) ValidateTx(txData []byte, _ types.KeySet, _ types.AddressSet) (bool, error) {
	signed, err := proto.DecodeSigned(txData)
	if err != nil {
		v.log.Warn("couldn't deserialize signed data", "error", err)
		return false, nil
	}
	return vp.SignedByActiveValidator(v.ctx, v.log, signed)
}

// MintsAny reports whether [keysChanged] holds the mint balance of any token.
func MintsAny(keysChanged types.KeySet) bool {
	for _, key := range keysChanged.List() {
		tok, ok := TokenOf(key)
		if !ok {
			continue
		}
		if owner, _ := IsBalanceKey(tok, key); owner.IsInternal(types.Mint) {
			return true
		}
	}
	return false
}
