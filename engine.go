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
	"context"
	"io"

	"github.com/jackal-xmpp/sonar"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	"github.com/mirlo-im/mirlo/log"
	mucmodel "github.com/mirlo-im/mirlo/model/muc"
	"github.com/mirlo-im/mirlo/module/roster"
	"github.com/mirlo-im/mirlo/module/xep0045"
	"github.com/mirlo-im/mirlo/module/xep0115"
	"github.com/mirlo-im/mirlo/presence"
	"github.com/mirlo-im/mirlo/router"
	"github.com/mirlo-im/mirlo/storage"
)

// Engine assembles the presence sub-protocol stack: inbound dispatching,
// subscription tracking, room state, capability resolution and outbound
// presence formatting.
type Engine struct {
	selfJID   *jid.JID
	sn        *sonar.Sonar
	registry  *mucmodel.Registry
	caps      *xep0115.EntityCaps
	roster    *roster.Roster
	muc       *xep0045.Muc
	disp      *presence.Dispatcher
	sender    *presence.Sender
	repCloser io.Closer
}

// New returns an initialized presence engine described by cfg.
// Inbound stanzas enter through Dispatcher and state transitions are
// announced as sonar events on sn.
func New(cfg *Config, rt router.Router, sn *sonar.Sonar) (*Engine, error) {
	if len(cfg.Logger.Level) > 0 {
		log.SetLogger(log.NewZapLogger(cfg.Logger.OutputPath), cfg.Logger.Level)
	}
	selfJID, err := jid.NewWithString(cfg.Account.JID, false)
	if err != nil {
		return nil, err
	}
	rep, repCloser, err := storage.New(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	registry := mucmodel.NewRegistry()
	caps := xep0115.New(rt, rep, selfJID)
	rs := roster.New(caps, sn, selfJID)
	muc := xep0045.New(registry, caps, sn)

	sender := presence.NewSender(rt, registry, rs, selfJID, cfg.Account.CapsNode, cfg.Account.CapsVer)
	sender.SetPriority(cfg.Account.Priority)

	return &Engine{
		selfJID:   selfJID,
		sn:        sn,
		registry:  registry,
		caps:      caps,
		roster:    rs,
		muc:       muc,
		disp:      presence.NewDispatcher(rs, muc),
		sender:    sender,
		repCloser: repCloser,
	}, nil
}

// Dispatcher returns the inbound presence dispatcher.
func (e *Engine) Dispatcher() *presence.Dispatcher { return e.disp }

// Sender returns the outbound presence sender.
func (e *Engine) Sender() *presence.Sender { return e.sender }

// Roster returns the subscription tracking module.
func (e *Engine) Roster() *roster.Roster { return e.roster }

// Muc returns the room presence module.
func (e *Engine) Muc() *xep0045.Muc { return e.muc }

// Caps returns the entity capabilities module.
func (e *Engine) Caps() *xep0115.EntityCaps { return e.caps }

// Rooms returns the room membership registry.
func (e *Engine) Rooms() *mucmodel.Registry { return e.registry }

// Shutdown drains inbound processing and releases repository resources.
func (e *Engine) Shutdown(ctx context.Context) error {
	if err := e.disp.Shutdown(ctx); err != nil {
		return err
	}
	return e.repCloser.Close()
}
