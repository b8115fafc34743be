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

package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fillmore-labs.com/receiptguard/analyzer"
	"fillmore-labs.com/receiptguard/internal/cache"
	"fillmore-labs.com/receiptguard/internal/server"
)

const defaultAddr = ":8080"

func newServeCmd(g *globals) *cobra.Command {
	var (
		addr      string
		cacheSize int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer over HTTP",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().IntVar(&cacheSize, "cache-size", cache.DefaultSize, "number of results kept in memory (0 disables the cache)")

	flagOptions := analyzer.RegisterFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		s, log, err := g.load(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("addr") && s.Server.Addr != nil {
			addr = *s.Server.Addr
		}

		opts := append(s.Options(), analyzer.WithLogger(log.Named("analyzer")))
		if cacheSize > 0 {
			opts = append(opts, analyzer.WithCache(cache.NewMemory(cacheSize)))
		}

		a := analyzer.New(append(opts, flagOptions()...)...)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.New(a, log.Named("http")).ListenAndServe(ctx, addr)
	}

	return cmd
}
