package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

// TestChurn acquires and releases slots in a pool with one slot per worker,
// so every acquisition reuses a released slot.
func TestChurn(c Config) {

	stop := CreateServer(&c)
	defer stop()

	pool := CreatePool(c.Base, int64(c.Workers))

	client := NewClient()

	pending := c.N
	failed := int64(0)

	t0 := time.Now()
	Parallel(c.Workers, func(worker int) {

		for atomic.AddInt64(&pending, -1) >= 0 {

			slot := struct {
				Id   int    `json:"id"`
				Uuid string `json:"uuid"`
			}{}

			payload, _ := json.Marshal(JSON{"worker": worker})
			err := do(client, c.Base+"/v1/pools/"+pool+":acquire", payload, &slot)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				continue
			}

			payload, _ = json.Marshal(slot)
			err = do(client, c.Base+"/v1/pools/"+pool+":release", payload, nil)
			if err != nil {
				atomic.AddInt64(&failed, 1)
			}
		}
	})

	Report(c.N, time.Since(t0))
	fmt.Println("failed:", failed)
}

func do(client *http.Client, url string, payload []byte, response any) error {

	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Println("ERROR: do request:", err.Error())
		os.Exit(4)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if response == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}

	return json.NewDecoder(resp.Body).Decode(response)
}
