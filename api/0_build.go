package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/dpool/api/apipoolv1"
	"github.com/fulldump/dpool/service"
)

func Build(s service.Servicer, version, apiKey, apiSecret string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		Authenticate(apiKey, apiSecret),
	)

	apipoolv1.BuildV1Pools(v1, s).
		WithInterceptors(
			injectServicer(s),
		)

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "dpool"
	spec.Info.Description = "Fixed capacity slot pools for data oriented workloads."
	b.Resource("/openapi.json").
		WithActions(box.Get(func(r *http.Request) any {

			spec.Servers = []boxopenapi.Server{
				{
					Url: "https://" + r.Host,
				},
				{
					Url: "http://" + r.Host,
				},
			}

			return spec
		}))

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apipoolv1.SetServicer(ctx, s))
		}
	}
}
