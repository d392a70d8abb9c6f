// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package catalog

import (
	"context"
	"sync"
)

// Pool bounds concurrent catalog lookups with a fixed permit count.
type Pool struct {
	permits chan struct{}
}

// NewPool creates a pool with the given concurrency bound. A bound below 1
// is treated as 1.
func NewPool(concurrency int) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pool{permits: make(chan struct{}, concurrency)}
}

// mapResult pairs an input index with its lookup outcome so Map can keep
// input order while collecting from concurrent workers.
type mapResult[V any] struct {
	index int
	value V
	err   error
}

// Map runs fn over every item with bounded concurrency and returns the
// successful results in input order. Per-item failures are dropped, not
// propagated; enrichment is advisory and one bad lookup must not sink the
// batch. A canceled context stops permit acquisition early.
func Map[T, V any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) (V, error)) []V {
	if len(items) == 0 {
		return []V{}
	}

	results := make(chan mapResult[V], len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		select {
		case p.permits <- struct{}{}:
		case <-ctx.Done():
			goto collect
		}
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-p.permits }()
			v, err := fn(ctx, item)
			results <- mapResult[V]{index: i, value: v, err: err}
		}(i, item)
	}

collect:
	wg.Wait()
	close(results)

	// Channel drain order is arbitrary; restore input order.
	byIndex := make(map[int]V, len(items))
	for r := range results {
		if r.err != nil {
			continue
		}
		byIndex[r.index] = r.value
	}
	ordered := make([]V, 0, len(byIndex))
	for i := 0; i < len(items); i++ {
		if v, ok := byIndex[i]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered
}
