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

package event

import (
	"time"

	presencemodel "github.com/mirlo-im/mirlo/model/presence"
)

const (
	// ContactOnline event is posted when a contact resource becomes available.
	ContactOnline = "presence.contact_online"

	// ContactOffline event is posted when a contact resource becomes unavailable.
	ContactOffline = "presence.contact_offline"

	// SubscriptionRequested event is posted when a contact requests presence subscription.
	SubscriptionRequested = "presence.subscription_requested"

	// SubscriptionResolved event is posted when a contact resolves a presence
	// subscription through a 'subscribed' or 'unsubscribed' stanza.
	SubscriptionResolved = "presence.subscription_resolved"
)

// ContactOnlineEventInfo contains all info associated to a contact online event.
type ContactOnlineEventInfo struct {
	// JID is the contact bare JID.
	JID string

	// Resource contains the freshly observed resource presence.
	Resource *presencemodel.Resource

	// LastActivity contains the resource last activity instant, when announced.
	LastActivity *time.Time
}

// ContactOfflineEventInfo contains all info associated to a contact offline event.
type ContactOfflineEventInfo struct {
	// JID is the contact bare JID.
	JID string

	// Resource is the name of the resource that became unavailable.
	Resource string

	// Status contains the unavailable status text, if any.
	Status string
}

// SubscriptionEventInfo contains all info associated to a subscription event.
type SubscriptionEventInfo struct {
	// JID is the peer bare JID.
	JID string

	// Type is the subscription stanza type: subscribe, subscribed or unsubscribed.
	Type string
}
