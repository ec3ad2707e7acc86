package apipoolv1

import (
	"context"
	"fmt"
	"time"
)

type updateRequest struct {
	Delta string `json:"delta"`
}

// update runs the pool update routine once with the given delta.
func update(ctx context.Context, input *updateRequest) (*PoolResponse, error) {

	delta, err := time.ParseDuration(input.Delta)
	if err != nil || delta < 0 {
		return nil, fmt.Errorf("%w: bad delta '%s'", ErrBadRequest, input.Delta)
	}

	pool, err := lookupPool(ctx)
	if err != nil {
		return nil, err
	}

	err = pool.Update(delta)
	if err != nil {
		return nil, err
	}

	return newPoolResponse(pool.Stats()), nil
}
