// Package controller owns the authoritative query parameters and the last
// fetched page and metrics. User intents come in as patches or refreshes;
// every trigger issues a fresh fetch and the latest-started request wins.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"stockctl/domain"
	"stockctl/query"
)

// State is the observable controller state. Consumers get copies and never
// mutate it directly.
type State struct {
	Products domain.PaginatedProducts
	Metrics  []domain.Metric
	Loading  bool
	Err      string
}

// Controller mediates between param mutations and the backend. It is the
// single writer of its state; readers take snapshots.
type Controller struct {
	backend domain.ProductAPI
	log     *slog.Logger

	mu       sync.Mutex
	params   query.Params
	state    State
	seq      uint64 // sequence of the latest issued fetch
	onChange func(State)

	wg sync.WaitGroup
}

// New constructs a Controller around a backend with the given initial
// params. No fetch is issued until UpdateParams or Refresh is called.
func New(backend domain.ProductAPI, initial query.Params, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{backend: backend, params: initial, log: log}
}

// OnChange registers a callback invoked with a state snapshot after every
// commit. It is called outside the controller lock.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Params returns a copy of the current query parameters.
func (c *Controller) Params() query.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params.Apply(query.Patch{})
}

// State returns a snapshot of the observable state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UpdateParams merges the patch into the current params and starts a fetch.
// Loading is set and any prior error cleared before the fetch begins.
func (c *Controller) UpdateParams(ctx context.Context, patch query.Patch) {
	c.mu.Lock()
	c.params = c.params.Apply(patch)
	c.startFetchLocked(ctx)
	c.mu.Unlock()
}

// Refresh re-issues a fetch with unchanged params. Used after create,
// update, delete and stock toggles to resynchronize list and metrics; page
// and filters are preserved.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.startFetchLocked(ctx)
	c.mu.Unlock()
}

// Wait blocks until every in-flight fetch has settled. One-shot commands
// call it before reading state.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) startFetchLocked(ctx context.Context) {
	c.seq++
	seq := c.seq
	params := c.params
	c.state.Loading = true
	c.state.Err = ""
	c.wg.Add(1)
	go c.fetch(ctx, seq, params)
}

// fetch runs the list and metrics requests concurrently and commits the
// result only if no newer fetch has been issued since this one started.
func (c *Controller) fetch(ctx context.Context, seq uint64, params query.Params) {
	defer c.wg.Done()
	start := time.Now()

	var (
		page       domain.PaginatedProducts
		metrics    []domain.Metric
		listErr    error
		metricsErr error
		inner      sync.WaitGroup
	)
	inner.Add(2)
	go func() {
		defer inner.Done()
		page, listErr = c.backend.ListProducts(ctx, params)
	}()
	go func() {
		defer inner.Done()
		metrics, metricsErr = c.backend.Metrics(ctx)
	}()
	inner.Wait()

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.log.Debug("stale response discarded", "seq", seq, "latest_seq", c.seq)
		return
	}

	c.state.Loading = false
	if listErr == nil {
		c.state.Products = page
	}
	if metricsErr == nil {
		c.state.Metrics = metrics
	}
	if err := errors.Join(listErr, metricsErr); err != nil {
		// previously held data stays in place; only the message changes
		c.state.Err = err.Error()
		c.log.Error("fetch failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	} else {
		c.state.Err = ""
		c.log.Info("fetch done",
			"total", page.TotalElements,
			"page", page.Page,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	st := c.state
	cb := c.onChange
	c.mu.Unlock()

	if cb != nil {
		cb(st)
	}
}
