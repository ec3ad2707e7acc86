package apipoolv1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/dpool/service"
)

func BuildV1Pools(v1 *box.R, s service.Servicer) *box.R {

	pools := v1.Resource("/pools").
		WithActions(
			box.Get(listPools),
			box.Post(createPool),
		)

	v1.Resource("/pools/{poolName}").
		WithActions(
			box.Get(getPool),
			box.ActionPost(acquire),
			box.ActionPost(release),
			box.ActionPost(find),
			box.ActionPost(traverse),
			box.ActionPost(update),
			box.ActionPost(dropPool),
			box.Action(dump),
		)

	v1.Resource("/pools/{poolName}/slots/{slotId}").
		WithActions(
			box.Get(getSlot),
			box.Patch(patchSlot),
		)

	return pools
}
