package api

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/fulldump/box"
)

// Compression gzips responses for clients that accept it. Pool dumps and
// JSON lines streams compress well.
func Compression(next box.H) box.H {
	return func(ctx context.Context) {
		r := box.GetRequest(ctx)
		w := box.GetResponse(ctx)

		w.Header().Add("Vary", "Accept-Encoding")
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next(ctx)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
		gz := gzip.NewWriter(w)
		defer gz.Close()

		box.GetBoxContext(ctx).Response = gzipResponseWriter{Writer: gz, ResponseWriter: w}
		next(ctx)
	}
}

type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}
