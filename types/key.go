// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// KeySeparator joins the segments of a storage key.
const KeySeparator = "/"

var errInvalidSegment = errors.New("invalid key segment")

// Key is a path into the key-value store. Keys are ordered by their string
// form, which is also how they are laid out on disk.
type Key string

// NewKey joins [segments] into a key. Segments must be non-empty and must not
// contain the separator, so that distinct segment lists never collide.
func NewKey(segments ...string) (Key, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: no segments", errInvalidSegment)
	}
	for _, seg := range segments {
		if seg == "" || strings.Contains(seg, KeySeparator) {
			return "", fmt.Errorf("%w: %q", errInvalidSegment, seg)
		}
	}
	return Key(strings.Join(segments, KeySeparator)), nil
}

// AddressSegment is the key segment that refers to [addr].
func AddressSegment(addr Address) string {
	return addr.String()
}

// Segments splits [k] back into its path segments.
func (k Key) Segments() []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), KeySeparator)
}

// Bytes is the database representation of [k].
func (k Key) Bytes() []byte { return []byte(k) }

func (k Key) String() string { return string(k) }

// KeySet is a sorted, de-duplicated set of keys. Iterating List always
// yields the same order on every node.
type KeySet struct {
	keys []Key
}

// NewKeySet returns the set containing [keys].
func NewKeySet(keys ...Key) KeySet {
	s := KeySet{}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts [k], keeping the set sorted.
func (s *KeySet) Add(k Key) {
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= k })
	if i < len(s.keys) && s.keys[i] == k {
		return
	}
	s.keys = append(s.keys, "")
	copy(s.keys[i+1:], s.keys[i:])
	s.keys[i] = k
}

// Contains reports whether [k] is in the set.
func (s KeySet) Contains(k Key) bool {
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= k })
	return i < len(s.keys) && s.keys[i] == k
}

func (s KeySet) Len() int { return len(s.keys) }

// List returns the keys in ascending order.
func (s KeySet) List() []Key {
	keys := make([]Key, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// AddressSet is a sorted, de-duplicated set of addresses.
type AddressSet struct {
	addrs []Address
}

// NewAddressSet returns the set containing [addrs].
func NewAddressSet(addrs ...Address) AddressSet {
	s := AddressSet{}
	for _, a := range addrs {
		s.Add(a)
	}
	return s
}

func (s *AddressSet) search(a Address) int {
	return sort.Search(len(s.addrs), func(i int) bool { return s.addrs[i].Compare(a) >= 0 })
}

// Add inserts [a], keeping the set sorted.
func (s *AddressSet) Add(a Address) {
	i := s.search(a)
	if i < len(s.addrs) && s.addrs[i].Compare(a) == 0 {
		return
	}
	s.addrs = append(s.addrs, Address{})
	copy(s.addrs[i+1:], s.addrs[i:])
	s.addrs[i] = a
}

// Contains reports whether [a] is in the set.
func (s AddressSet) Contains(a Address) bool {
	i := s.search(a)
	return i < len(s.addrs) && s.addrs[i].Compare(a) == 0
}

func (s AddressSet) Len() int { return len(s.addrs) }

// List returns the addresses in ascending order.
func (s AddressSet) List() []Address {
	addrs := make([]Address, len(s.addrs))
	copy(addrs, s.addrs)
	return addrs
}
