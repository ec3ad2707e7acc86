package apipoolv1

import (
	"testing"

	"github.com/go-json-experiment/json/jsontext"

	. "github.com/fulldump/biff"

	"github.com/fulldump/dpool/registry"
)

func newFindPool(t *testing.T, payloads ...string) *registry.Pool {

	pool, err := registry.NewPool("find", registry.Options{Capacity: len(payloads)})
	AssertNil(err)

	for _, payload := range payloads {
		_, err := pool.Acquire(jsontext.Value(payload))
		AssertNil(err)
	}

	return pool
}

func TestProject(t *testing.T) {

	payload := []byte(`{"name":"ship","pos":{"x":1,"y":2},"tags":["a","b"]}`)

	AssertEqual(string(project(payload, []string{"name"})), `{"name":"ship"}`)
	AssertEqual(string(project(payload, []string{"pos.y", "missing"})), `{"pos":{"y":2}}`)
	AssertEqual(string(project(payload, []string{"tags"})), `{"tags":["a","b"]}`)
}

func TestFindSlots(t *testing.T) {

	pool := newFindPool(t, `{"hp":10}`, `{"hp":0}`, `7`, `{"hp":30}`)

	found, err := findSlots(pool, findRequest{
		Filter: map[string]any{"hp": map[string]any{"$gt": 5.0}},
		Limit:  -1,
	})
	AssertNil(err)
	AssertEqual(len(found), 2)
	AssertEqual(string(found[0].Payload), `{"hp":10}`)
	AssertEqual(string(found[1].Payload), `{"hp":30}`)

	found, err = findSlots(pool, findRequest{Skip: 1, Limit: 2})
	AssertNil(err)
	AssertEqual(len(found), 2)
	AssertEqual(int(found[0].Id), 1)
	AssertEqual(string(found[1].Payload), `7`)

	found, err = findSlots(pool, findRequest{Limit: 0})
	AssertNil(err)
	AssertEqual(len(found), 0)
}
