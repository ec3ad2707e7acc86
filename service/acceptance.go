package service

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create pool", func(a *biff.A) {
		resp := apiRequest("POST", "/pools").
			WithBodyJson(JSON{
				"name":     "particles",
				"capacity": 3,
			}).Do()
		Save(resp, "Create pool", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), poolStats("particles", 3, 0, 0, 0, 0))

		a.Alternative("Create pool - already exists", func(a *biff.A) {
			resp := apiRequest("POST", "/pools").
				WithBodyJson(JSON{
					"name":     "particles",
					"capacity": 10,
				}).Do()
			Save(resp, "Create pool - already exists", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Retrieve pool", func(a *biff.A) {
			resp := apiRequest("GET", "/pools/particles").Do()
			Save(resp, "Retrieve pool", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), poolStats("particles", 3, 0, 0, 0, 0))
		})

		a.Alternative("List pools", func(a *biff.A) {
			apiRequest("POST", "/pools").
				WithBodyJson(JSON{"name": "asteroids", "capacity": 1}).Do()

			resp := apiRequest("GET", "/pools").Do()
			Save(resp, "List pools", `Pools are listed ordered by name.`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				poolStats("asteroids", 1, 0, 0, 0, 0),
				poolStats("particles", 3, 0, 0, 0, 0),
			})
		})

		a.Alternative("Drop pool", func(a *biff.A) {
			resp := apiRequest("POST", "/pools/particles:dropPool").Do()
			Save(resp, "Drop pool", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
			biff.AssertEqual(resp.BodyString(), "")

			a.Alternative("Get dropped pool", func(a *biff.A) {
				resp := apiRequest("GET", "/pools/particles").Do()
				Save(resp, "Get pool - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Acquire with empty body", func(a *biff.A) {
			resp := apiRequest("POST", "/pools/particles:acquire").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
		})

		a.Alternative("Acquire malformed JSON", func(a *biff.A) {
			resp := apiRequest("POST", "/pools/particles:acquire").
				WithBodyString(`{"x":`).Do()
			Save(resp, "Acquire - malformed", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Acquire three slots", func(a *biff.A) {
			resp := apiRequest("POST", "/pools/particles:acquire").
				WithBodyString(`{"x":10}` + "\n" + `{"x":11}` + "\n" + `{"x":12}` + "\n").Do()
			Save(resp, "Acquire many", `
				Every JSON document in the body takes one slot. One line is
				returned per acquired slot.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			acquired := decodeLines(resp)
			biff.AssertEqual(len(acquired), 3)
			uuids := []interface{}{}
			for i, slot := range acquired {
				uuids = append(uuids, slot["uuid"])
				biff.AssertEqualJson(withoutUuid(slot), JSON{
					"id":      i,
					"age":     "0s",
					"payload": JSON{"x": 10 + i},
				})
			}

			a.Alternative("Acquire when exhausted", func(a *biff.A) {
				resp := apiRequest("POST", "/pools/particles:acquire").
					WithBodyJson(JSON{"x": 13}).Do()
				Save(resp, "Acquire - exhausted", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusInsufficientStorage)
			})

			a.Alternative("Retrieve slot", func(a *biff.A) {
				resp := apiRequest("GET", "/pools/particles/slots/2").Do()
				Save(resp, "Retrieve slot", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"id":      2,
					"uuid":    uuids[2],
					"age":     "0s",
					"payload": JSON{"x": 12},
				})
			})

			a.Alternative("Retrieve slot - never acquired", func(a *biff.A) {
				resp := apiRequest("GET", "/pools/particles/slots/3").Do()
				Save(resp, "Retrieve slot - invalid handle", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Retrieve slot - bad id", func(a *biff.A) {
				resp := apiRequest("GET", "/pools/particles/slots/first").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Release slot", func(a *biff.A) {
				resp := apiRequest("POST", "/pools/particles:release").
					WithBodyJson(JSON{"id": 1, "uuid": uuids[1]}).Do()
				Save(resp, "Release slot", `
					The uuid is optional. When present it must match the
					acquisition that took the slot.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"id":      1,
					"uuid":    uuids[1],
					"age":     "0s",
					"payload": JSON{"x": 11},
				})

				a.Alternative("Release twice", func(a *biff.A) {
					resp := apiRequest("POST", "/pools/particles:release").
						WithBodyJson(JSON{"id": 1}).Do()
					Save(resp, "Release slot - double release", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusConflict)
				})

				a.Alternative("Retrieve released slot", func(a *biff.A) {
					resp := apiRequest("GET", "/pools/particles/slots/1").Do()

					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})

				a.Alternative("Dump", func(a *biff.A) {
					resp := apiRequest("GET", "/pools/particles:dump").Do()
					Save(resp, "Dump pool", `Free slots are printed as '-'.`)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqual(resp.BodyString(), `{"x":10} - {"x":12}`+"\n")
				})

				a.Alternative("Traverse", func(a *biff.A) {
					resp := apiRequest("POST", "/pools/particles:traverse").
						WithBodyJson(JSON{}).Do()
					Save(resp, "Traverse pool", `
						Every slot up to the high water mark is returned, free
						slots included.
					`)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					slots := decodeLines(resp)
					biff.AssertEqual(len(slots), 3)
					biff.AssertEqualJson(slots[1], JSON{"id": 1, "free": true})
					biff.AssertEqual(slots[2]["uuid"], uuids[2])
				})

				a.Alternative("Pool stats", func(a *biff.A) {
					resp := apiRequest("GET", "/pools/particles").Do()

					biff.AssertEqualJson(resp.BodyJson(), poolStats("particles", 3, 3, 2, 1, 4))
				})

				a.Alternative("Acquire reuses the released slot", func(a *biff.A) {
					resp := apiRequest("POST", "/pools/particles:acquire").
						WithBodyJson(JSON{"x": 13}).Do()

					biff.AssertEqual(resp.StatusCode, http.StatusCreated)
					reused := decodeLines(resp)[0]
					biff.AssertEqual(reused["id"], float64(1))
					biff.AssertNotEqual(reused["uuid"], uuids[1])

					a.Alternative("Release with stale uuid", func(a *biff.A) {
						resp := apiRequest("POST", "/pools/particles:release").
							WithBodyJson(JSON{"id": 1, "uuid": uuids[1]}).Do()
						Save(resp, "Release slot - stale uuid", ``)

						biff.AssertEqual(resp.StatusCode, http.StatusConflict)
					})
				})
			})

			a.Alternative("Release without id", func(a *biff.A) {
				resp := apiRequest("POST", "/pools/particles:release").
					WithBodyJson(JSON{}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Find with filter", func(a *biff.A) {
				resp := apiRequest("POST", "/pools/particles:find").
					WithBodyJson(JSON{
						"filter": JSON{
							"x": JSON{"$gt": 10},
						},
					}).Do()
				Save(resp, "Find", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				found := decodeLines(resp)
				biff.AssertEqual(len(found), 2)
				biff.AssertEqual(found[0]["id"], float64(1))
				biff.AssertEqual(found[1]["id"], float64(2))
			})

			a.Alternative("Find with skip, limit and fields", func(a *biff.A) {
				apiRequest("PATCH", "/pools/particles/slots/1").
					WithBodyJson(JSON{"tag": "red"}).Do()

				resp := apiRequest("POST", "/pools/particles:find").
					WithBodyJson(JSON{
						"skip":   1,
						"limit":  1,
						"fields": []string{"tag"},
					}).Do()
				Save(resp, "Find - projection", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				found := decodeLines(resp)
				biff.AssertEqual(len(found), 1)
				biff.AssertEqualJson(withoutUuid(found[0]), JSON{
					"id":      1,
					"age":     "0s",
					"payload": JSON{"tag": "red"},
				})
			})

			a.Alternative("Patch slot", func(a *biff.A) {
				resp := apiRequest("PATCH", "/pools/particles/slots/0").
					WithBodyJson(JSON{
						"x":   nil,
						"y.z": 5,
					}).Do()
				Save(resp, "Patch slot", `
					Keys are paths, a null value removes the path.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"id":      0,
					"uuid":    uuids[0],
					"age":     "0s",
					"payload": JSON{"y": JSON{"z": 5}},
				})
			})

			a.Alternative("Update", func(a *biff.A) {
				resp := apiRequest("POST", "/pools/particles:update").
					WithBodyJson(JSON{"delta": "1s"}).Do()
				Save(resp, "Update pool", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				stats := poolStats("particles", 3, 3, 3, 0, 4)
				stats["ticks"] = 1
				biff.AssertEqualJson(resp.BodyJson(), stats)

				a.Alternative("Slots get older", func(a *biff.A) {
					resp := apiRequest("GET", "/pools/particles/slots/0").Do()

					biff.AssertEqual(resp.BodyJsonMap()["age"], "1s")
				})
			})

			a.Alternative("Update with bad delta", func(a *biff.A) {
				resp := apiRequest("POST", "/pools/particles:update").
					WithBodyJson(JSON{"delta": "soon"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})
		})
	})

	a.Alternative("Create pool with ttl", func(a *biff.A) {
		resp := apiRequest("POST", "/pools").
			WithBodyJson(JSON{
				"name":     "sparks",
				"capacity": 2,
				"ttl":      "2s",
			}).Do()
		Save(resp, "Create pool - ttl", `
			Slots older than the ttl are released on update.
		`)
		biff.AssertEqual(resp.StatusCode, http.StatusCreated)

		apiRequest("POST", "/pools/sparks:acquire").
			WithBodyJson(JSON{"spark": true}).Do()

		resp = apiRequest("POST", "/pools/sparks:update").
			WithBodyJson(JSON{"delta": "2s"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"name":            "sparks",
			"capacity":        2,
			"high_water_mark": 1,
			"occupied":        0,
			"free":            1,
			"ttl":             "2s",
			"revision":        2,
			"ticks":           1,
			"expired":         1,
		})
	})

	a.Alternative("Create pool with bad ttl", func(a *biff.A) {
		resp := apiRequest("POST", "/pools").
			WithBodyJson(JSON{
				"name": "sparks",
				"ttl":  "forever",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Acquire on missing pool", func(a *biff.A) {
		resp := apiRequest("POST", "/pools/nothing:acquire").
			WithBodyJson(JSON{}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})
}

func poolStats(name string, capacity, highWaterMark, occupied, free, revision int) JSON {
	return JSON{
		"name":            name,
		"capacity":        capacity,
		"high_water_mark": highWaterMark,
		"occupied":        occupied,
		"free":            free,
		"ttl":             "0s",
		"revision":        revision,
		"ticks":           0,
		"expired":         0,
	}
}

// decodeLines reads every JSON document of a streamed response.
func decodeLines(resp *apitest.Response) []JSON {

	result := []JSON{}
	d := json.NewDecoder(bytes.NewReader(resp.BodyBytes()))
	for {
		item := JSON{}
		err := d.Decode(&item)
		if err == io.EOF {
			return result
		}
		biff.AssertNil(err)
		result = append(result, item)
	}
}

// withoutUuid checks the slot carries an acquisition uuid and removes it so
// the rest can be compared.
func withoutUuid(slot JSON) JSON {

	uuid, _ := slot["uuid"].(string)
	biff.AssertEqual(len(uuid), 36)
	biff.AssertEqual(strings.Count(uuid, "-"), 4)

	result := JSON{}
	for k, v := range slot {
		if k != "uuid" {
			result[k] = v
		}
	}
	return result
}
