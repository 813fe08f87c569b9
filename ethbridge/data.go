// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethbridge

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/crypto"

	"github.com/ava-labs/bridgevm/proto"
	"github.com/ava-labs/bridgevm/types"
)

var errMalformedUpdate = errors.New("malformed queue update")

// ToSigned decodes transaction data into its signed envelope.
func ToSigned(data []byte) (*proto.Signed, error) {
	return proto.DecodeSigned(data)
}

// ToUpdateQueue decodes the payload of a signed envelope.
func ToUpdateQueue(data []byte) (UpdateQueue, error) {
	update := UpdateQueue{}
	if _, err := types.Codec.Unmarshal(data, &update); err != nil {
		return UpdateQueue{}, fmt.Errorf("%w: %s", errMalformedUpdate, err)
	}
	if err := update.Verify(); err != nil {
		return UpdateQueue{}, fmt.Errorf("%w: %s", errMalformedUpdate, err)
	}
	return update, nil
}

// SignUpdate encodes [update] and wraps it in an envelope signed by [key],
// ready to be used as transaction data.
func SignUpdate(key crypto.PrivateKey, update UpdateQueue) ([]byte, error) {
	payload, err := update.Bytes()
	if err != nil {
		return nil, err
	}
	signed, err := proto.Sign(key, payload)
	if err != nil {
		return nil, err
	}
	return signed.Bytes()
}
