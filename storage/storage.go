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

package storage

import (
	"fmt"
	"io"

	"github.com/mirlo-im/mirlo/repository"
	"github.com/mirlo-im/mirlo/storage/badgerdb"
	"github.com/mirlo-im/mirlo/storage/memstorage"
	"github.com/mirlo-im/mirlo/storage/pgsql"
)

// New initializes the capabilities repository described by a given configuration.
// The returned closer releases backend resources and must be invoked at shutdown.
func New(cfg *Config) (repository.Capabilities, io.Closer, error) {
	switch cfg.Type {
	case Memory:
		return memstorage.NewCapabilities(), nopCloser{}, nil

	case BadgerDB:
		s, err := badgerdb.New(cfg.BadgerDB)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case PgSQL:
		s, err := pgsql.New(cfg.PgSQL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("storage: unrecognized storage type: %d", cfg.Type)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
