package apipoolv1

import (
	"context"
)

func listPools(ctx context.Context) ([]*PoolResponse, error) {

	s := GetServicer(ctx)

	result := []*PoolResponse{}
	for _, pool := range s.ListPools() {
		result = append(result, newPoolResponse(pool.Stats()))
	}

	return result, nil
}
