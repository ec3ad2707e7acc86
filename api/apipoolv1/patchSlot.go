package apipoolv1

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/tidwall/sjson"

	"github.com/fulldump/dpool/utils"
)

// patchSlot sets every path of the body object in the slot payload. Paths
// use gjson syntax ("a.b", "list.0"), a null value deletes the path.
func patchSlot(ctx context.Context, r *http.Request) (*SlotResponse, error) {

	pool, err := lookupPool(ctx)
	if err != nil {
		return nil, err
	}

	id, err := parseSlotId(ctx)
	if err != nil {
		return nil, err
	}

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	err = json.Unmarshal(requestBody, &changes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
	}

	paths := utils.SortedKeys(changes)

	slot, err := pool.Modify(id, r.URL.Query().Get("uuid"), func(payload []byte) ([]byte, error) {
		for _, path := range paths {
			value := changes[path]
			if value == nil {
				payload, err = sjson.DeleteBytes(payload, path)
			} else {
				payload, err = sjson.SetBytes(payload, path, value)
			}
			if err != nil {
				return nil, fmt.Errorf("%w: path '%s': %s", ErrBadRequest, path, err.Error())
			}
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}

	return newSlotResponse(slot), nil
}
