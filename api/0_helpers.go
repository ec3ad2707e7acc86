package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/dpool/api/apipoolv1"
	"github.com/fulldump/dpool/datapool"
	"github.com/fulldump/dpool/registry"
	"github.com/fulldump/dpool/service"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

// describeError maps an error to its http status and a human description.
func describeError(ctx context.Context, err error) (int, string) {

	var jsonSyntaxError *json.SyntaxError
	var jsonTypeError *json.UnmarshalTypeError
	var jsontextError *jsontext.SyntacticError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "user is not authenticated"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "try again later"
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String())
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method)
	case errors.As(err, &jsonSyntaxError), errors.As(err, &jsontextError), errors.As(err, &jsonTypeError):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.Is(err, apipoolv1.ErrBadRequest), errors.Is(err, registry.ErrInvalidPayload), errors.Is(err, registry.ErrorBadPoolName):
		return http.StatusBadRequest, "check the request parameters"
	case errors.Is(err, datapool.ErrAllocationFailure):
		return http.StatusBadRequest, "the pool could not be allocated"
	case errors.Is(err, service.ErrorPoolNotFound):
		return http.StatusNotFound, "pool does not exist"
	case errors.Is(err, service.ErrorPoolAlreadyExists):
		return http.StatusConflict, "pool already exists"
	case errors.Is(err, registry.ErrStaleHandle):
		return http.StatusConflict, "the slot was released and reused, uuid does not match"
	case errors.Is(err, datapool.ErrInvalidHandle):
		return http.StatusNotFound, "slot is free or was never acquired"
	case errors.Is(err, datapool.ErrDoubleRelease):
		return http.StatusConflict, "slot is already free"
	case errors.Is(err, datapool.ErrPoolExhausted):
		return http.StatusInsufficientStorage, "no free slots left"
	case errors.Is(err, datapool.ErrNullCallback):
		return http.StatusNotImplemented, "pool has no update routine"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := describeError(ctx, err)

		w := box.GetResponse(ctx)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
