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

package presencemodel

import (
	"time"

	capsmodel "github.com/mirlo-im/mirlo/model/caps"
)

// Kind represents a resource presence kind.
type Kind uint8

const (
	// Online represents a plain available presence.
	Online Kind = iota

	// Chat represents a 'free for chat' presence.
	Chat

	// Away represents an 'away' presence.
	Away

	// XA represents an 'extended away' presence.
	XA

	// DND represents a 'do not disturb' presence.
	DND

	// Offline represents an unavailable presence.
	Offline
)

// String returns kind string representation.
func (k Kind) String() string {
	switch k {
	case Chat:
		return "chat"
	case Away:
		return "away"
	case XA:
		return "xa"
	case DND:
		return "dnd"
	case Offline:
		return "offline"
	default:
		return "online"
	}
}

// KindFromString returns the presence kind associated to a show value.
// Unrecognized values map to Online.
func KindFromString(show string) Kind {
	switch show {
	case "chat":
		return Chat
	case "away":
		return Away
	case "xa":
		return XA
	case "dnd":
		return DND
	case "offline":
		return Offline
	default:
		return Online
	}
}

// Resource represents one JID resource current presence.
// A Resource value is rebuilt from scratch on every inbound available
// presence and handed off to the consuming roster layer; it's never
// mutated in place.
type Resource struct {
	Name         string
	Kind         Kind
	Status       string
	Priority     int8
	CapsKey      *capsmodel.Key
	LastActivity *time.Time
}

// New returns an initialized presence resource.
func New(name string, kind Kind, status string, priority int8, capsKey *capsmodel.Key) *Resource {
	return &Resource{
		Name:     name,
		Kind:     kind,
		Status:   status,
		Priority: priority,
		CapsKey:  capsKey,
	}
}
