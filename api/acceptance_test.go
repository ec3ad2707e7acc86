package api

import (
	"net/http"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"

	"github.com/fulldump/dpool/registry"
	"github.com/fulldump/dpool/service"
)

func TestAcceptance(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		r := registry.NewRegistry(&registry.Config{})
		r.Open()
		biff.AssertEqual(r.GetStatus(), registry.StatusOperating)

		s := service.NewService(r, registry.Options{Capacity: 16})

		b := Build(s, "test", "", "")
		b.WithInterceptors(
			PrettyErrorInterceptor,
			RecoverFromPanic,
			InterceptorUnavailable(r),
		)

		api := apitest.NewWithHandler(b)

		service.Acceptance(a, func(method, path string) *apitest.Request {
			return api.Request(method, "/v1"+path)
		})

	})
}

func TestUnavailable(t *testing.T) {

	r := registry.NewRegistry(&registry.Config{})

	b := Build(service.NewService(r, registry.Options{}), "test", "", "")
	b.WithInterceptors(
		PrettyErrorInterceptor,
		InterceptorUnavailable(r),
	)

	api := apitest.NewWithHandler(b)

	resp := api.Request("GET", "/v1/pools").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusServiceUnavailable)
	biff.AssertEqualJson(resp.BodyJson(), map[string]any{
		"error": map[string]any{
			"message":     "temporary unavailable: opening",
			"description": "try again later",
		},
	})
}

func TestRelease(t *testing.T) {

	r := registry.NewRegistry(&registry.Config{})
	r.Open()

	api := apitest.NewWithHandler(Build(service.NewService(r, registry.Options{}), "v1.2.3", "", ""))

	resp := api.Request("GET", "/release").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusOK)
	biff.AssertEqual(resp.BodyJson(), "v1.2.3")
}
