// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// forEachRow calls fn for every row in [0, rows), spreading the rows over up
// to workers goroutines. A non-positive workers means runtime.GOMAXPROCS(0).
//
// Rows are handed out one at a time, so calls for different rows may run
// concurrently and fn must only touch that row's part of any shared output.
// No more rows are handed out once ctx is done or a call returns an error.
func forEachRow(ctx context.Context, rows int, workers int, fn func(row int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, rows)

	if workers <= 1 {
		for row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			} else if err := fn(row); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	next := atomic.Int64{}
	for range workers {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				row := int(next.Add(1) - 1)
				if row >= rows {
					return nil
				} else if err := fn(row); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
