package polygon

import (
	"net/http"
	"time"
)

// baseTransportConfig returns the HTTP transport shared by Polygon requests.
// Workers hit one host concurrently, so idle connections are kept per host.
func baseTransportConfig(workers int) *http.Transport {
	if workers < 2 {
		workers = 2
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: 10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          workers * 2,
		MaxIdleConnsPerHost:   workers,
	}
}

// newHTTPClient creates an HTTP client with the per-request timeout.
func newHTTPClient(timeout time.Duration, workers int) *http.Client {
	return &http.Client{
		Transport: baseTransportConfig(workers),
		Timeout:   timeout,
	}
}
