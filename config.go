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
	"io/ioutil"

	"github.com/mirlo-im/mirlo/storage"
	"gopkg.in/yaml.v2"
)

// LoggerConfig represents logging configuration.
type LoggerConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"output_path"`
}

// AccountConfig represents the local account identity configuration.
type AccountConfig struct {
	JID      string `yaml:"jid"`
	Priority int8   `yaml:"priority"`
	CapsNode string `yaml:"caps_node"`
	CapsVer  string `yaml:"caps_ver"`
}

// Config represents a global engine configuration.
type Config struct {
	Logger  LoggerConfig   `yaml:"logger"`
	Account AccountConfig  `yaml:"account"`
	Storage storage.Config `yaml:"storage"`
}

// FromFile loads global configuration from a specified file.
func (cfg *Config) FromFile(configFile string) error {
	b, err := ioutil.ReadFile(configFile)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, cfg)
}

// FromBuffer loads global configuration from a specified byte buffer.
func (cfg *Config) FromBuffer(buf *bytes.Buffer) error {
	return yaml.Unmarshal(buf.Bytes(), cfg)
}
