// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
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
//
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"fillmore-labs.com/receiptguard/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
  key     TEXT PRIMARY KEY,
  result  TEXT NOT NULL,
  created INTEGER NOT NULL
);`

// SQLite is a persistent cache of JSON-encoded results in a SQLite database.
type SQLite struct {
	pool *sqlitex.Pool
}

var _ Cache = (*SQLite)(nil)

// OpenSQLite opens or creates the cache database at path.
func OpenSQLite(path string, poolSize int) (*SQLite, error) {
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		Flags:    sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL,
		PoolSize: poolSize,
		PrepareConn: func(conn *sqlite.Conn) error {
			if err := sqlitex.ExecuteTransient(conn, "PRAGMA busy_timeout = 5000", nil); err != nil {
				return err
			}

			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	return &SQLite{pool: pool}, nil
}

func (s *SQLite) Get(ctx context.Context, key Key) (*report.Result, bool, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("cache connection: %w", err)
	}
	defer s.pool.Put(conn)

	var data string
	var found bool
	err = sqlitex.Execute(conn, "SELECT result FROM results WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key.String()},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			data, found = stmt.ColumnText(0), true

			return nil
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}

	if !found {
		return nil, false, nil
	}

	var r report.Result
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}

	return &r, true, nil
}

func (s *SQLite) Put(ctx context.Context, key Key, r *report.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("cache connection: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, "INSERT OR REPLACE INTO results (key, result, created) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
		Args: []any{key.String(), string(data), time.Now().Unix()},
	})
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}

	return nil
}

// Close releases all database connections.
func (s *SQLite) Close() error { return s.pool.Close() }
