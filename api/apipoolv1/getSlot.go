package apipoolv1

import (
	"context"
	"net/http"
)

// getSlot accepts an optional ?uuid= to reject handles whose slot has been
// reused.
func getSlot(ctx context.Context, r *http.Request) (*SlotResponse, error) {

	pool, err := lookupPool(ctx)
	if err != nil {
		return nil, err
	}

	id, err := parseSlotId(ctx)
	if err != nil {
		return nil, err
	}

	slot, err := pool.Get(id, r.URL.Query().Get("uuid"))
	if err != nil {
		return nil, err
	}

	return newSlotResponse(slot), nil
}
