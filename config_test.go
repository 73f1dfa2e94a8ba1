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

package mirlo

import (
	"bytes"
	"testing"

	"github.com/mirlo-im/mirlo/storage"
	"github.com/stretchr/testify/require"
)

func TestConfig_FromBuffer(t *testing.T) {
	buf := bytes.NewBufferString(`
logger:
  level: debug
  output_path: mirlo.log

account:
  jid: alice@mirlo.im/desktop
  priority: 10
  caps_node: https://mirlo.im
  caps_ver: q07IKJEyjvHSyhy//CH0CxmKi8w=

storage:
  type: badgerdb
  badgerdb:
    data_dir: /var/lib/mirlo/data
`)
	var cfg Config
	require.Nil(t, cfg.FromBuffer(buf))

	require.Equal(t, "debug", cfg.Logger.Level)
	require.Equal(t, "mirlo.log", cfg.Logger.OutputPath)
	require.Equal(t, "alice@mirlo.im/desktop", cfg.Account.JID)
	require.Equal(t, int8(10), cfg.Account.Priority)
	require.Equal(t, storage.BadgerDB, cfg.Storage.Type)
	require.Equal(t, "/var/lib/mirlo/data", cfg.Storage.BadgerDB.DataDir)
}

func TestConfig_DefaultStorage(t *testing.T) {
	buf := bytes.NewBufferString(`
account:
  jid: alice@mirlo.im/desktop
`)
	var cfg Config
	require.Nil(t, cfg.FromBuffer(buf))
	require.Equal(t, storage.Memory, cfg.Storage.Type)
}

func TestConfig_InvalidStorageType(t *testing.T) {
	buf := bytes.NewBufferString(`
storage:
  type: cassandra
`)
	var cfg Config
	require.NotNil(t, cfg.FromBuffer(buf))
}

func TestConfig_BadFile(t *testing.T) {
	var cfg Config
	require.NotNil(t, cfg.FromFile("/tmp/mirlo-missing-config.yml"))
}
