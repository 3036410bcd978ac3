package middlewares

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var gzipReaderPool = sync.Pool{
	New: func() interface{} {
		return new(gzip.Reader)
	},
}

type gzipBody struct {
	body io.ReadCloser
	zr   *gzip.Reader
}

func (g *gzipBody) Read(p []byte) (int, error) {
	return g.zr.Read(p)
}

func (g *gzipBody) Close() error {
	if g.zr == nil {
		return nil
	}
	zerr := g.zr.Close()
	gzipReaderPool.Put(g.zr)
	g.zr = nil

	if err := g.body.Close(); err != nil {
		return err
	}
	return zerr
}

// Decompress transparently inflates gzip-encoded request bodies.
func Decompress(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isGzip(r.Header.Get("Content-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}

			zr := gzipReaderPool.Get().(*gzip.Reader)
			if err := zr.Reset(r.Body); err != nil {
				gzipReaderPool.Put(zr)
				log.Warn("invalid gzip body", zap.Error(err))
				http.Error(w, "invalid compressed body", http.StatusBadRequest)
				return
			}

			body := &gzipBody{body: r.Body, zr: zr}
			defer body.Close()

			r.Body = body
			r.Header.Del("Content-Encoding")
			r.ContentLength = -1
			next.ServeHTTP(w, r)
		})
	}
}

func isGzip(enc string) bool {
	for _, part := range strings.Split(enc, ",") {
		if strings.EqualFold(strings.TrimSpace(part), "gzip") {
			return true
		}
	}
	return false
}
