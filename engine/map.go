package engine

import (
	"context"
	"sync"

	"github.com/richinex/typecast/schema"
)

// CastEach casts every item concurrently and returns results in input order.
// Concurrency is bounded by WithConcurrency; the first failure cancels the
// remaining work.
func (e *Engine) CastEach(ctx context.Context, items []string, target schema.Target, opts ...CallOption) ([]any, error) {
	return e.forEach(ctx, items, opts, func(ctx context.Context, item string) (any, error) {
		return e.Cast(ctx, item, target, opts...)
	})
}

// ClassifyEach classifies every item concurrently, preserving input order.
func (e *Engine) ClassifyEach(ctx context.Context, items []string, target schema.Target, opts ...CallOption) ([]any, error) {
	return e.forEach(ctx, items, opts, func(ctx context.Context, item string) (any, error) {
		return e.Classify(ctx, item, target, opts...)
	})
}

// ExtractEach extracts entities from every item concurrently, preserving
// input order.
func (e *Engine) ExtractEach(ctx context.Context, items []string, target schema.Target, opts ...CallOption) ([][]any, error) {
	results, err := e.forEach(ctx, items, opts, func(ctx context.Context, item string) (any, error) {
		return e.Extract(ctx, item, target, opts...)
	})
	if err != nil {
		return nil, err
	}
	out := make([][]any, len(results))
	for i, r := range results {
		out[i], _ = r.([]any)
	}
	return out, nil
}

// forEach fans work out over the items with bounded concurrency. Result i
// always corresponds to item i. On the first error the context handed to
// in-flight work is canceled and that error is returned.
func (e *Engine) forEach(ctx context.Context, items []string, opts []CallOption, fn func(ctx context.Context, item string) (any, error)) ([]any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	cfg := e.newCallConfig(opts)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	results := make([]any, len(items))
	sem := make(chan struct{}, cfg.concurrency)

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item string) {
			defer wg.Done()
			defer func() { <-sem }()

			value, err := fn(ctx, item)
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			results[i] = value
		}(i, item)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
