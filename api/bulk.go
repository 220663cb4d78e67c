package api

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"stockctl/domain"
)

const bulkWorkers = 10

// BulkCreate pushes each request through backend.CreateProduct using a
// bounded worker pool. All failures are collected; successfully created
// products are not rolled back.
func BulkCreate(ctx context.Context, backend domain.ProductAPI, reqs []domain.ProductRequest) error {
	if len(reqs) == 0 {
		return nil
	}

	jobs := make(chan domain.ProductRequest)
	errs := make(chan error, len(reqs))

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-jobs:
				if !ok {
					return
				}
				if _, err := backend.CreateProduct(ctx, req); err != nil {
					errs <- fmt.Errorf("name=%s: %w", req.Name, err)
				}
			}
		}
	}

	nWorkers := bulkWorkers
	if len(reqs) < nWorkers {
		nWorkers = len(reqs)
	}
	wg.Add(nWorkers)
	for i := 0; i < nWorkers; i++ {
		go worker()
	}

	go func() {
		defer close(jobs)
		for _, req := range reqs {
			select {
			case <-ctx.Done():
				return
			case jobs <- req:
			}
		}
	}()

	wg.Wait()
	close(errs)

	collected := make([]error, 0, len(reqs))
	if err := ctx.Err(); err != nil {
		collected = append(collected, err)
	}
	for err := range errs {
		collected = append(collected, err)
	}
	return errors.Join(collected...)
}
