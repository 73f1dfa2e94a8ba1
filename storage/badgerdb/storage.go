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
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger"
	"github.com/mirlo-im/mirlo/model/serializer"
)

var (
	errEntityNotFound  = errors.New("badgerdb: entity not found")
	errWrongEntityType = errors.New("badgerdb: wrong entity type")
)

// Storage represents a BadgerDB backed repository.
type Storage struct {
	db *badger.DB
}

// New returns an initialized BadgerDB storage instance.
func New(cfg *Config) (*Storage, error) {
	if err := os.MkdirAll(cfg.DataDir, os.ModePerm); err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions(cfg.DataDir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close releases all underlying database resources.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) getVal(key []byte, txn *badger.Txn) ([]byte, error) {
	item, err := txn.Get(key)
	switch err {
	case nil:
		break
	case badger.ErrKeyNotFound:
		return nil, nil
	default:
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (s *Storage) fetch(entity interface{}, key []byte, txn *badger.Txn) error {
	val, err := s.getVal(key, txn)
	if err != nil {
		return err
	}
	if val == nil {
		return errEntityNotFound
	}
	if entity == nil {
		return nil
	}
	gd, ok := entity.(serializer.Deserializer)
	if !ok {
		return fmt.Errorf("%v: %T", errWrongEntityType, entity)
	}
	return serializer.Deserialize(val, gd)
}

func (s *Storage) upsert(entity interface{}, key []byte, tx *badger.Txn) error {
	gs, ok := entity.(serializer.Serializer)
	if !ok {
		return fmt.Errorf("%v: %T", errWrongEntityType, entity)
	}
	val, err := serializer.Serialize(gs)
	if err != nil {
		return err
	}
	bts := make([]byte, len(val))
	copy(bts, val)
	return tx.Set(key, bts)
}
