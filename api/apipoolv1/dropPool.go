package apipoolv1

import (
	"context"

	"github.com/fulldump/box"
)

func dropPool(ctx context.Context) error {

	s := GetServicer(ctx)

	return s.DeletePool(box.GetUrlParameter(ctx, "poolName"))
}
