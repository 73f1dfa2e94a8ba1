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
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/mirlo-im/mirlo/log"
)

// pingInterval defines how often to check the connection
var pingInterval = 15 * time.Second

// pingTimeout defines how long to wait for pong from server
var pingTimeout = 10 * time.Second

// Storage represents a PostgreSQL backed repository.
type Storage struct {
	db         *sql.DB
	cancelPing context.CancelFunc
}

// New returns an initialized PostgreSQL storage instance.
func New(cfg *Config) (*Storage, error) {
	sq.StatementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s", cfg.User, cfg.Password, cfg.Host, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.PoolSize)

	s := &Storage{db: db}
	if err := s.ping(context.Background()); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelPing = cancel
	go s.pingLoop(ctx)

	return s, nil
}

// Close shuts down the underlying database connection pool.
func (s *Storage) Close() error {
	if s.cancelPing != nil {
		s.cancelPing()
	}
	return s.db.Close()
}

func (s *Storage) pingLoop(ctx context.Context) {
	tick := time.NewTicker(pingInterval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			if err := s.ping(ctx); err != nil {
				log.Warnw("failed to ping database server", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Storage) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithDeadline(ctx, time.Now().Add(pingTimeout))
	defer cancel()

	return s.db.PingContext(pingCtx)
}
