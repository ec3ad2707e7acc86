package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fulldump/box"

	"github.com/fulldump/dpool/api"
	"github.com/fulldump/dpool/configuration"
	"github.com/fulldump/dpool/registry"
	"github.com/fulldump/dpool/service"
)

var VERSION = "dev"

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	r := registry.NewRegistry(&registry.Config{
		TickInterval: c.TickInterval,
	})

	s := service.NewService(r, registry.Options{
		Capacity: c.DefaultCapacity,
		TTL:      c.DefaultTTL,
	})

	b := api.Build(s, VERSION, c.ApiKey, c.ApiSecret)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(log.New(os.Stdout, "ACCESS: ", log.Lshortfile)),
		api.PrettyErrorInterceptor,
		api.RecoverFromPanic,
		api.InterceptorUnavailable(r),
	)

	server := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
	log.Println("listening on", c.HttpAddr)

	stopOnce := sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			r.Stop()
			server.Shutdown(context.Background())
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			fmt.Println("Signal received", sig.String())
			stop()
		}
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.Start()
			if err != nil {
				fmt.Println(err.Error())
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := server.Serve(ln)
			if err != nil && err != http.ErrServerClosed {
				fmt.Println(err.Error())
			}
		}()

		wg.Wait()
	}

	return
}
