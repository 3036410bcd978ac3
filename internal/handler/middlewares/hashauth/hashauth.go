// Package hashauth authenticates request bodies and signs response bodies with
// the HashSHA256 header.
package hashauth

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const Header = "HashSHA256"

// ValidateRequest rejects requests whose body does not match the HashSHA256
// header. Bodies over maxBody bytes get 413 before any hashing. A nil hasher
// disables the check.
func ValidateRequest(hasher Hasher, maxBody int64, log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasher == nil {
				next.ServeHTTP(w, r)
				return
			}

			givenHash := r.Header.Get(Header)
			if givenHash == "" {
				http.Error(w, "missing "+Header+" header", http.StatusUnauthorized)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					log.Warn("request body too large", zap.String("uri", r.URL.Path), zap.Int64("limit", maxBody))
					http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !hasher.Verify(body, givenHash) {
				log.Warn("request hash mismatch", zap.String("uri", r.URL.Path))
				http.Error(w, "invalid "+Header, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) Write(p []byte) (int, error) { return b.body.Write(p) }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

// SignResponse buffers the response and attaches its HashSHA256.
func SignResponse(hasher Hasher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasher == nil {
				next.ServeHTTP(w, r)
				return
			}

			buf := &bufferedWriter{header: w.Header()}
			next.ServeHTTP(buf, r)

			if buf.status == 0 {
				buf.status = http.StatusOK
			}
			body := buf.body.Bytes()
			w.Header().Set(Header, hasher.Sign(body))
			w.WriteHeader(buf.status)
			w.Write(body)
		})
	}
}
