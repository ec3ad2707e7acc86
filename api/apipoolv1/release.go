package apipoolv1

import (
	"context"
	"fmt"

	"github.com/fulldump/dpool/datapool"
)

type releaseRequest struct {
	Id   *datapool.ID `json:"id"`
	Uuid string       `json:"uuid"`
}

func release(ctx context.Context, input *releaseRequest) (*SlotResponse, error) {

	if input.Id == nil {
		return nil, fmt.Errorf("%w: id is required", ErrBadRequest)
	}

	pool, err := lookupPool(ctx)
	if err != nil {
		return nil, err
	}

	slot, err := pool.Release(*input.Id, input.Uuid)
	if err != nil {
		return nil, err
	}

	return newSlotResponse(slot), nil
}
