package apipoolv1

import (
	"context"
	"io"
	"net/http"
)

func dump(ctx context.Context, w http.ResponseWriter) error {

	pool, err := lookupPool(ctx)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err = io.WriteString(w, pool.Dump()+"\n")
	return err
}
