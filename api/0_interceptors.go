package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"

	"github.com/fulldump/dpool/registry"
)

var ErrUnauthorized = errors.New("unauthorized")

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Println("PANIC:", err)
				debug.PrintStack()
				box.SetError(ctx, fmt.Errorf("panic: %v", err))
			}
		}()
		next(ctx)
	}
}

func AccessLog(l *log.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				l.Println(now.UTC().Format(time.RFC3339Nano), formatRemoteAddr(r), r.Method, r.URL.String(), time.Since(now))
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}

// Authenticate checks X-Api-Key and X-Api-Secret. Empty credentials disable
// the check.
func Authenticate(apiKey, apiSecret string) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			if apiKey == "" && apiSecret == "" {
				next(ctx)
				return
			}

			r := box.GetRequest(ctx)
			keyOk := subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Api-Key")), []byte(apiKey)) == 1
			secretOk := subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Api-Secret")), []byte(apiSecret)) == 1
			if !keyOk || !secretOk {
				box.SetError(ctx, ErrUnauthorized)
				return
			}

			next(ctx)
		}
	}
}

func InterceptorUnavailable(r *registry.Registry) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := r.GetStatus()
			if status == registry.StatusOpening {
				box.SetError(ctx, fmt.Errorf("%w: opening", ErrUnavailable))
				return
			}
			if status == registry.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: closing", ErrUnavailable))
				return
			}
			next(ctx)
		}
	}
}
