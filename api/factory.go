package api

import (
	"fmt"
	"time"

	"stockctl/domain"
)

// NewBackend constructs a domain.ProductAPI by kind: "http", "memory" or
// "file". For http, apiURL is the REST base URL; for file, path is the JSON
// file location.
func NewBackend(kind, apiURL, path string, timeout time.Duration) (domain.ProductAPI, error) {
	switch kind {
	case "http":
		if apiURL == "" {
			return nil, fmt.Errorf("api url required for http backend")
		}
		return NewClient(apiURL, timeout)
	case "memory", "mem":
		return NewMemory(), nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("file path required for file backend")
		}
		return NewFile(path)
	default:
		return nil, fmt.Errorf("unknown backend kind: %s", kind)
	}
}
