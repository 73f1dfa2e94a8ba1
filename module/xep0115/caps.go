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

package xep0115

import (
	"context"
	"strings"
	"sync"

	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	"github.com/mirlo-im/mirlo/log"
	capsmodel "github.com/mirlo-im/mirlo/model/caps"
	"github.com/mirlo-im/mirlo/repository"
	"github.com/mirlo-im/mirlo/router"
	xmpputil "github.com/mirlo-im/mirlo/util/xmpp"
)

// supportedHash is the only verification hash algorithm whose keys are
// treated as shareable across senders.
const supportedHash = "sha-1"

const (
	discoRequestID       = "disco"
	legacyDiscoRequestID = "disco_"
)

// EntityCaps represents an entity capabilities (XEP-0115) module.
// It derives capability cache keys from presence advertisements and issues
// service discovery queries for keys not yet present in the repository.
type EntityCaps struct {
	router  router.Router
	rep     repository.Capabilities
	selfJID *jid.JID

	mu       sync.Mutex
	inFlight map[string]struct{} // cache key -> query issued
}

// New returns a new initialized EntityCaps instance.
func New(router router.Router, rep repository.Capabilities, selfJID *jid.JID) *EntityCaps {
	return &EntityCaps{
		router:   router,
		rep:      rep,
		selfJID:  selfJID,
		inFlight: make(map[string]struct{}),
	}
}

// ResolveKey derives the capability cache key announced by pr, or nil when
// pr carries no usable capabilities advertisement.
// On a cache miss a disco#info query is sent to pr sender; resolution is
// idempotent and at most one query is issued per key.
func (x *EntityCaps) ResolveKey(ctx context.Context, pr *stravaganza.Presence) *capsmodel.Key {
	hash, node, ver, ok := xmpputil.PresenceCaps(pr)
	if !ok {
		return nil
	}
	if hash == supportedHash {
		if len(ver) == 0 {
			return nil
		}
		key := capsmodel.NewVerificationKey(ver)
		if len(node) > 0 {
			x.requestCapabilities(ctx, key, discoRequestID, node+"#"+ver, pr.FromJID())
		}
		return &key
	}
	// legacy advertisement: the key is scoped to the sender
	key := capsmodel.NewJIDKey(pr.FromJID().String())
	if len(node) == 0 {
		return &key
	}
	x.requestCapabilities(ctx, key, legacyDiscoRequestID+pr.FromJID().String(), node, pr.FromJID())
	return &key
}

// MatchesIQ tells whether iq is a disco#info result correlated to a query
// this module issued.
func (x *EntityCaps) MatchesIQ(iq *stravaganza.IQ) bool {
	if !iq.IsResult() {
		return false
	}
	key, ok := correlateKey(iq)
	if !ok {
		return false
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok = x.inFlight[key.String()]
	return ok
}

// ProcessIQ processes a disco#info result, registering the discovered
// features under the correlated cache key.
func (x *EntityCaps) ProcessIQ(ctx context.Context, iq *stravaganza.IQ) {
	key, ok := correlateKey(iq)
	if !ok {
		return
	}
	x.mu.Lock()
	_, ok = x.inFlight[key.String()]
	if ok {
		delete(x.inFlight, key.String())
	}
	x.mu.Unlock()
	if !ok {
		return
	}
	query := iq.ChildNamespace("query", xmpputil.DiscoInfoNamespace)
	if query == nil {
		return
	}
	var features []string
	for _, featureElem := range query.Children("feature") {
		features = append(features, featureElem.Attribute("var"))
	}
	caps := &capsmodel.Capabilities{
		Key:      key,
		Node:     capabilitiesNode(key, query.Attribute("node")),
		Features: features,
	}
	if err := x.rep.UpsertCapabilities(ctx, caps); err != nil {
		log.Warnw("failed to store capabilities", "key", key.String(), "err", err)
		return
	}
	log.Infow("registered capabilities", "key", key.String(), "features_count", len(features))
}

func (x *EntityCaps) requestCapabilities(ctx context.Context, key capsmodel.Key, iqID, node string, toJID *jid.JID) {
	x.mu.Lock()
	if _, ok := x.inFlight[key.String()]; ok {
		x.mu.Unlock()
		return
	}
	x.mu.Unlock()

	cached, err := x.rep.CapabilitiesExist(ctx, key)
	if err != nil {
		log.Warnw("failed to check capabilities existence", "key", key.String(), "err", err)
		return
	}
	if cached {
		return
	}
	x.mu.Lock()
	if _, ok := x.inFlight[key.String()]; ok {
		x.mu.Unlock()
		return
	}
	x.inFlight[key.String()] = struct{}{}
	x.mu.Unlock()

	iq := xmpputil.MakeDiscoInfoIQ(iqID, x.selfJID, toJID, node)

	log.Infow("requesting capabilities", "key", key.String(), "node", node)

	_ = x.router.Route(ctx, iq)
}

// correlateKey recovers the cache key a disco#info result answers for.
// The wire id alone cannot correlate verification key queries, which all
// share a fixed id; their key is carried by the echoed query node suffix.
// Legacy queries embed the queried JID in the id itself.
func correlateKey(iq *stravaganza.IQ) (capsmodel.Key, bool) {
	id := iq.Attribute(stravaganza.ID)
	switch {
	case id == discoRequestID:
		query := iq.ChildNamespace("query", xmpputil.DiscoInfoNamespace)
		if query == nil {
			return capsmodel.Key{}, false
		}
		node := query.Attribute("node")
		i := strings.LastIndex(node, "#")
		if i < 0 || i == len(node)-1 {
			return capsmodel.Key{}, false
		}
		return capsmodel.NewVerificationKey(node[i+1:]), true

	case strings.HasPrefix(id, legacyDiscoRequestID):
		return capsmodel.NewJIDKey(id[len(legacyDiscoRequestID):]), true
	}
	return capsmodel.Key{}, false
}

// capabilitiesNode maps the result's query node back to the announced node,
// stripping the #ver suffix appended to verification key queries.
func capabilitiesNode(key capsmodel.Key, node string) string {
	if key.Kind != capsmodel.VerificationKey {
		return node
	}
	if i := strings.LastIndex(node, "#"); i >= 0 {
		return node[:i]
	}
	return node
}
