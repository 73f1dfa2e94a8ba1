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

package badgerdb

import (
	"context"

	"github.com/dgraph-io/badger"
	capsmodel "github.com/mirlo-im/mirlo/model/caps"
)

// CapabilitiesExist tells whether capabilities have been registered for a given key.
func (s *Storage) CapabilitiesExist(_ context.Context, key capsmodel.Key) (bool, error) {
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		switch err := s.fetch(nil, capabilitiesKey(key), txn); err {
		case nil:
			found = true
			return nil
		case errEntityNotFound:
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// FetchCapabilities retrieves the capabilities entity associated to a given key.
func (s *Storage) FetchCapabilities(_ context.Context, key capsmodel.Key) (*capsmodel.Capabilities, error) {
	var caps capsmodel.Capabilities
	err := s.db.View(func(txn *badger.Txn) error {
		return s.fetch(&caps, capabilitiesKey(key), txn)
	})
	switch err {
	case nil:
		return &caps, nil
	case errEntityNotFound:
		return nil, nil
	default:
		return nil, err
	}
}

// UpsertCapabilities inserts or updates a capabilities entity.
func (s *Storage) UpsertCapabilities(_ context.Context, caps *capsmodel.Capabilities) error {
	return s.db.Update(func(tx *badger.Txn) error {
		return s.upsert(caps, capabilitiesKey(caps.Key), tx)
	})
}

func capabilitiesKey(key capsmodel.Key) []byte {
	return []byte("capabilities:" + key.String())
}
