// Package middleware holds the HTTP middleware shared by the API routes:
// bearer token authentication, per-IP rate limiting, request ids and
// Prometheus request metrics.
package middleware
