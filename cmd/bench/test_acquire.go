package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

// TestAcquire fills a pool of capacity N streaming one document per slot.
func TestAcquire(c Config) {

	stop := CreateServer(&c)
	defer stop()

	pool := CreatePool(c.Base, c.N)

	client := NewClient()

	items := c.N
	acquired := int64(0)

	t0 := time.Now()
	Parallel(c.Workers, func(worker int) {

		r, w := io.Pipe()

		wb := bufio.NewWriterSize(w, 1*1024*1024)

		go func() {
			for {
				n := atomic.AddInt64(&items, -1)
				if n < 0 {
					break
				}
				fmt.Fprintf(wb, "{\"n\":%d,\"worker\":%d}\n", n, worker)
			}
			wb.Flush()
			w.Close()
		}()

		req, err := http.NewRequest("POST", c.Base+"/v1/pools/"+pool+":acquire", r)
		if err != nil {
			fmt.Println("ERROR: new request:", err.Error())
			os.Exit(3)
		}

		resp, err := client.Do(req)
		if err != nil {
			fmt.Println("ERROR: do request:", err.Error())
			os.Exit(4)
		}
		defer resp.Body.Close()

		lines := bufio.NewScanner(resp.Body)
		for lines.Scan() {
			atomic.AddInt64(&acquired, 1)
		}
	})

	Report(acquired, time.Since(t0))
}
