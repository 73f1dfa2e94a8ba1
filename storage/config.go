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
	"errors"
	"fmt"

	"github.com/mirlo-im/mirlo/storage/badgerdb"
	"github.com/mirlo-im/mirlo/storage/pgsql"
)

// Type represents a repository storage type.
type Type int

const (
	// Memory represents an in-memory storage type.
	Memory Type = iota

	// BadgerDB represents a BadgerDB storage type.
	BadgerDB

	// PgSQL represents a PostgreSQL storage type.
	PgSQL
)

// Config represents a repository storage configuration.
type Config struct {
	Type     Type
	BadgerDB *badgerdb.Config
	PgSQL    *pgsql.Config
}

type storageProxy struct {
	Type     string           `yaml:"type"`
	BadgerDB *badgerdb.Config `yaml:"badgerdb"`
	PgSQL    *pgsql.Config    `yaml:"pgsql"`
}

// UnmarshalYAML satisfies Unmarshaler interface.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := storageProxy{}
	if err := unmarshal(&p); err != nil {
		return err
	}
	switch p.Type {
	case "memory", "":
		c.Type = Memory

	case "badgerdb":
		if p.BadgerDB == nil {
			return errors.New("storage.Config: couldn't read BadgerDB configuration")
		}
		c.Type = BadgerDB

		c.BadgerDB = p.BadgerDB
		if len(c.BadgerDB.DataDir) == 0 {
			c.BadgerDB.DataDir = "./data"
		}

	case "pgsql":
		if p.PgSQL == nil {
			return errors.New("storage.Config: couldn't read PostgreSQL configuration")
		}
		c.Type = PgSQL
		c.PgSQL = p.PgSQL

	default:
		return fmt.Errorf("storage.Config: unrecognized storage type: %s", p.Type)
	}
	return nil
}
