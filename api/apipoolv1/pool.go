package apipoolv1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fulldump/box"

	"github.com/fulldump/dpool/datapool"
	"github.com/fulldump/dpool/registry"
)

var ErrBadRequest = errors.New("bad request")

type PoolResponse struct {
	Name          string `json:"name"`
	Capacity      int    `json:"capacity"`
	HighWaterMark int    `json:"high_water_mark"`
	Occupied      int    `json:"occupied"`
	Free          int    `json:"free"`
	TTL           string `json:"ttl"`
	Revision      int64  `json:"revision"`
	Ticks         int64  `json:"ticks"`
	Expired       int64  `json:"expired"`
}

func newPoolResponse(stats registry.Stats) *PoolResponse {
	return &PoolResponse{
		Name:          stats.Name,
		Capacity:      stats.Capacity,
		HighWaterMark: stats.HighWaterMark,
		Occupied:      stats.Occupied,
		Free:          stats.Free,
		TTL:           stats.TTL.String(),
		Revision:      stats.Revision,
		Ticks:         stats.Ticks,
		Expired:       stats.Expired,
	}
}

type SlotResponse struct {
	Id      datapool.ID     `json:"id"`
	Uuid    string          `json:"uuid,omitempty"`
	Free    bool            `json:"free,omitempty"`
	Age     string          `json:"age,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func newSlotResponse(slot registry.Slot) *SlotResponse {

	if slot.Free {
		return &SlotResponse{Id: slot.Id, Free: true}
	}

	return &SlotResponse{
		Id:      slot.Id,
		Uuid:    slot.Uuid,
		Age:     slot.Age.String(),
		Payload: json.RawMessage(slot.Payload),
	}
}

func lookupPool(ctx context.Context) (*registry.Pool, error) {
	return GetServicer(ctx).GetPool(box.GetUrlParameter(ctx, "poolName"))
}

func parseSlotId(ctx context.Context) (datapool.ID, error) {

	slotId := box.GetUrlParameter(ctx, "slotId")
	id, err := strconv.Atoi(slotId)
	if err != nil {
		return 0, fmt.Errorf("%w: slot id '%s' is not a number", ErrBadRequest, slotId)
	}

	return datapool.ID(id), nil
}
