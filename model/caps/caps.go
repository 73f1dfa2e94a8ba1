// Copyright 2022 The mirlo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package capsmodel

import (
	"bytes"
	"encoding/gob"
)

// KeyKind identifies the key space a capabilities key belongs to.
type KeyKind uint8

const (
	// VerificationKey identifies a hash-derived key, shareable across all
	// entities announcing the same verification string.
	VerificationKey KeyKind = iota

	// JIDKey identifies a legacy key, valid only for the announcing entity
	// full JID.
	JIDKey
)

// Key represents a capabilities cache key.
// The two kinds form disjoint key spaces and must never be conflated.
type Key struct {
	Kind  KeyKind
	Value string
}

// NewVerificationKey returns a hash-derived capabilities key.
func NewVerificationKey(ver string) Key {
	return Key{Kind: VerificationKey, Value: ver}
}

// NewJIDKey returns a legacy capabilities key associated to jid.
func NewJIDKey(jid string) Key {
	return Key{Kind: JIDKey, Value: jid}
}

// String returns k cache string representation.
func (k Key) String() string {
	switch k.Kind {
	case VerificationKey:
		return "ver:" + k.Value
	default:
		return "jid:" + k.Value
	}
}

// Capabilities represents an entity capabilities cache entry.
type Capabilities struct {
	Key      Key
	Node     string
	Features []string
}

// HasFeature returns whether or not a Capabilities instance contains f feature.
func (c *Capabilities) HasFeature(f string) bool {
	for _, cf := range c.Features {
		if cf == f {
			return true
		}
	}
	return false
}

// FromBytes deserializes a Capabilities entity from its binary representation.
func (c *Capabilities) FromBytes(buf *bytes.Buffer) error {
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(&c.Key); err != nil {
		return err
	}
	if err := dec.Decode(&c.Node); err != nil {
		return err
	}
	return dec.Decode(&c.Features)
}

// ToBytes converts a Capabilities entity to its binary representation.
func (c *Capabilities) ToBytes(buf *bytes.Buffer) error {
	enc := gob.NewEncoder(buf)
	if err := enc.Encode(&c.Key); err != nil {
		return err
	}
	if err := enc.Encode(&c.Node); err != nil {
		return err
	}
	return enc.Encode(&c.Features)
}
