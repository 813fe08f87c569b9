// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethbridge

import (
	"github.com/ava-labs/bridgevm/types"
)

const queueSegment = "queue"

// Address is the internal account guarded by the bridge VP.
var Address = types.EthBridgeAddress

// QueueKey is the single key the bridge queue lives under.
func QueueKey() types.Key {
	key, err := types.NewKey(types.AddressSegment(Address), queueSegment)
	if err != nil {
		panic(err)
	}
	return key
}

// IsBridgeKey reports whether [key] is under the bridge's storage.
func IsBridgeKey(key types.Key) bool {
	segments := key.Segments()
	return len(segments) > 0 && segments[0] == types.AddressSegment(Address)
}
