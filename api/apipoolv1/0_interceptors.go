package apipoolv1

import (
	"context"

	"github.com/fulldump/dpool/service"
)

const ContextServicerKey = "3f1c7a52-8b0e-4f7e-9d2a-6c4b1e0d9a17"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer)
}
