package out

import "context"

// HTTPProber defines the contract for HTTP readiness probing.
type HTTPProber interface {
	// Probe sends a request to url and returns the status code and response time.
	// Returns (statusCode, responseTimeMs, error).
	Probe(ctx context.Context, method, url string) (int, int64, error)
}
