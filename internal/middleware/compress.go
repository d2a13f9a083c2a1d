package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// BrotliConfig controls response compression.
type BrotliConfig struct {
	Quality   int
	MinLength int
}

// DefaultBrotliConfig leaves small payloads (a single result, a draft ack)
// uncompressed.
var DefaultBrotliConfig = BrotliConfig{
	Quality:   5,
	MinLength: 1024,
}

// bufferedWriter holds the whole body so the encoding can be picked once the
// handler is done. Every JSON response here is small enough to buffer.
type bufferedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// Brotli compresses large responses for clients that accept "br".
func Brotli(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < brotli.BestSpeed || cfg.Quality > brotli.BestCompression {
		cfg.Quality = DefaultBrotliConfig.Quality
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}

	return func(c *gin.Context) {
		if !acceptsBrotli(c.Request) {
			c.Next()
			return
		}
		c.Header("Vary", "Accept-Encoding")

		inner := c.Writer
		bw := &bufferedWriter{ResponseWriter: inner}
		c.Writer = bw
		c.Next()
		c.Writer = inner

		if bw.body.Len() < cfg.MinLength || inner.Status() == http.StatusNoContent {
			_, _ = inner.Write(bw.body.Bytes())
			return
		}

		inner.Header().Set("Content-Encoding", "br")
		inner.Header().Del("Content-Length")
		enc := brotli.NewWriterLevel(inner, cfg.Quality)
		if _, err := enc.Write(bw.body.Bytes()); err != nil {
			_ = c.Error(err)
		}
		if err := enc.Close(); err != nil {
			_ = c.Error(err)
		}
	}
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
