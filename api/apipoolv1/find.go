package apipoolv1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SierraSoftworks/connor"
	jsonv2 "github.com/go-json-experiment/json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/fulldump/dpool/registry"
)

type findRequest struct {
	Filter map[string]any `json:"filter"`
	Skip   int            `json:"skip"`
	Limit  int            `json:"limit"`
	Fields []string       `json:"fields"`
}

// find writes one line per live slot whose payload matches the filter.
// A negative limit means no limit.
func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	input := findRequest{
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

	found, err := findSlots(pool, input)
	if err != nil {
		return err
	}

	e := json.NewEncoder(w)
	for _, slot := range found {
		e.Encode(newSlotResponse(slot))
	}

	return nil
}

func findSlots(pool *registry.Pool, input findRequest) ([]registry.Slot, error) {

	hasFilter := len(input.Filter) > 0

	skip := input.Skip
	limit := input.Limit

	var matchErr error
	found := []registry.Slot{}
	pool.Live(func(slot registry.Slot) bool {

		if limit == 0 {
			return false
		}

		if hasFilter {
			slotData := map[string]any{}
			if jsonv2.Unmarshal(slot.Payload, &slotData) != nil {
				return true // not an object, can not match
			}

			match, err := connor.Match(input.Filter, slotData)
			if err != nil {
				matchErr = fmt.Errorf("%w: match: %s", ErrBadRequest, err.Error())
				return false
			}
			if !match {
				return true
			}
		}

		if skip > 0 {
			skip--
			return true
		}

		limit--
		if len(input.Fields) > 0 {
			slot.Payload = project(slot.Payload, input.Fields)
		}
		found = append(found, slot)
		return true
	})

	return found, matchErr
}

// project keeps only the given gjson paths of payload.
func project(payload []byte, fields []string) []byte {

	projected := []byte(`{}`)
	for i, result := range gjson.GetManyBytes(payload, fields...) {
		if !result.Exists() {
			continue
		}
		projected, _ = sjson.SetRawBytes(projected, fields[i], []byte(result.Raw))
	}

	return projected
}
