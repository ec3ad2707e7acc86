package apipoolv1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	jsonv2 "github.com/go-json-experiment/json"

	"github.com/fulldump/dpool/registry"
)

type traverseRequest struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// traverse writes every slot below the high-water mark in index order, free
// slots included and flagged.
func traverse(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	input := traverseRequest{
		Limit: -1,
	}
	if len(requestBody) > 0 {
		err = jsonv2.Unmarshal(requestBody, &input)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
		}
	}

	pool, err := lookupPool(ctx)
	if err != nil {
		return err
	}

	skip := input.Skip
	limit := input.Limit
	slots := []registry.Slot{}
	pool.Traverse(func(slot registry.Slot) bool {
		if limit == 0 {
			return false
		}
		if skip > 0 {
			skip--
			return true
		}
		limit--
		slots = append(slots, slot)
		return true
	})

	e := json.NewEncoder(w)
	for _, slot := range slots {
		e.Encode(newSlotResponse(slot))
	}

	return nil
}
