package apipoolv1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-json-experiment/json/jsontext"
)

// acquire takes one slot per JSON value in the body and writes one line per
// acquired slot.
func acquire(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	pool, err := lookupPool(ctx)
	if err != nil {
		return err
	}

	jsonReader := jsontext.NewDecoder(r.Body)
	jsonWriter := json.NewEncoder(w)

	for i := 0; ; i++ {
		payload, err := jsonReader.ReadValue()
		if err == io.EOF {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			if i == 0 {
				return fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
			}
			return writeStreamError(jsonWriter, err)
		}

		slot, err := pool.Acquire(payload)
		if err != nil {
			if i == 0 {
				return err
			}
			return writeStreamError(jsonWriter, err)
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		jsonWriter.Encode(newSlotResponse(slot))
	}
}

// writeStreamError reports an error once the status code has been sent.
func writeStreamError(e *json.Encoder, err error) error {
	return e.Encode(map[string]any{
		"error": map[string]any{
			"message": err.Error(),
		},
	})
}
