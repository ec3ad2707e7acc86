package apipoolv1

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type createPoolRequest struct {
	Name     string `json:"name"`
	Capacity *int   `json:"capacity"`
	TTL      string `json:"ttl"`
}

func createPool(ctx context.Context, w http.ResponseWriter, input *createPoolRequest) (*PoolResponse, error) {

	s := GetServicer(ctx)

	options := s.DefaultOptions()
	if input.Capacity != nil {
		options.Capacity = *input.Capacity
	}
	if input.TTL != "" {
		ttl, err := time.ParseDuration(input.TTL)
		if err != nil || ttl < 0 {
			return nil, fmt.Errorf("%w: bad ttl '%s'", ErrBadRequest, input.TTL)
		}
		options.TTL = ttl
	}

	pool, err := s.CreatePool(input.Name, options)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newPoolResponse(pool.Stats()), nil
}

