package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fulldump/dpool/bootstrap"
	"github.com/fulldump/dpool/configuration"
)

type JSON = map[string]any

func Parallel(workers int, f func(worker int)) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			f(worker)
		}(i)
	}
	wg.Wait()
}

func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     1024,
			MaxIdleConnsPerHost: 1024,
			MaxIdleConns:        1024,
		},
		Timeout: 30 * time.Second,
	}
}

func CreatePool(base string, capacity int64) string {

	name := "pool-" + strconv.FormatInt(time.Now().UnixNano(), 10)

	payload, _ := json.Marshal(JSON{"name": name, "capacity": capacity})

	req, _ := http.NewRequest("POST", base+"/v1/pools", bytes.NewReader(payload))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		io.Copy(os.Stdout, resp.Body)
		fmt.Println("ERROR: create pool:", resp.Status)
		os.Exit(2)
	}

	return name
}

// CreateServer starts an in-process server when no base URL is given.
func CreateServer(c *Config) (stop func()) {

	if c.Base != "" {
		return func() {}
	}

	conf := configuration.Default()
	conf.TickInterval = 0
	conf.EnableCompression = false
	c.Base = "http://" + conf.HttpAddr

	start, stop := bootstrap.Bootstrap(conf)
	go start()

	if err := WaitReady(c.Base, 10*time.Second); err != nil {
		fmt.Println("ERROR:", err.Error())
		stop()
		os.Exit(2)
	}

	return stop
}

// WaitReady polls base until the service stops answering 503 Unavailable.
func WaitReady(base string, timeout time.Duration) error {

	deadline := time.Now().Add(timeout)
	for {
		resp, err := http.Get(base + "/release")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("server at %s not ready after %s", base, timeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func Report(n int64, took time.Duration) {
	fmt.Println("operations:", n)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f ops/sec\n", float64(n)/took.Seconds())
}
