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

package pgsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	sq "github.com/Masterminds/squirrel"
	capsmodel "github.com/mirlo-im/mirlo/model/caps"
)

// CapabilitiesExist tells whether capabilities have been registered for a given key.
func (s *Storage) CapabilitiesExist(ctx context.Context, key capsmodel.Key) (bool, error) {
	var count int
	err := sq.Select("COUNT(*)").From("capabilities").
		Where(sq.And{sq.Eq{"key_kind": int(key.Kind)}, sq.Eq{"key_val": key.Value}}).
		RunWith(s.db).QueryRowContext(ctx).Scan(&count)
	switch err {
	case nil:
		return count > 0, nil
	default:
		return false, err
	}
}

// FetchCapabilities retrieves the capabilities entity associated to a given key.
func (s *Storage) FetchCapabilities(ctx context.Context, key capsmodel.Key) (*capsmodel.Capabilities, error) {
	var node, b string
	err := sq.Select("node", "features").From("capabilities").
		Where(sq.And{sq.Eq{"key_kind": int(key.Kind)}, sq.Eq{"key_val": key.Value}}).
		RunWith(s.db).QueryRowContext(ctx).Scan(&node, &b)
	switch err {
	case nil:
		caps := capsmodel.Capabilities{Key: key, Node: node}
		if err := json.NewDecoder(strings.NewReader(b)).Decode(&caps.Features); err != nil {
			return nil, err
		}
		return &caps, nil
	case sql.ErrNoRows:
		return nil, nil
	default:
		return nil, err
	}
}

// UpsertCapabilities inserts or updates a capabilities entity.
func (s *Storage) UpsertCapabilities(ctx context.Context, caps *capsmodel.Capabilities) error {
	b, err := json.Marshal(caps.Features)
	if err != nil {
		return err
	}
	_, err = sq.Insert("capabilities").
		Columns("key_kind", "key_val", "node", "features").
		Values(int(caps.Key.Kind), caps.Key.Value, caps.Node, b).
		Suffix("ON CONFLICT (key_kind, key_val) DO UPDATE SET node = $5, features = $6", caps.Node, b).
		RunWith(s.db).ExecContext(ctx)
	return err
}
