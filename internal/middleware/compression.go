package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// uncompressedPaths are scraped or polled by infrastructure and answer with tiny
// bodies; Prometheus also negotiates its own encoding.
var uncompressedPaths = []string{"/metrics", "/healthz", "/readyz"}

// Compression gzips API responses (inventory lists and batch outcomes) for
// clients that accept it.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(uncompressedPaths))
}
