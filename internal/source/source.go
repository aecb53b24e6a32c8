// Package source obtains the hyperkit source tree: a released archive
// (downloaded, verified, cached and unpacked) or a live git checkout.
package source

import (
	"fmt"
	"net/http"
)

// FetchError represents a failure to obtain sources.
type FetchError struct {
	Source    string
	Operation string
	Err       error
	Hint      string
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s: %s failed: %s", e.Source, e.Operation, e.Err)
	if e.Hint != "" {
		msg += " — " + e.Hint
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultHTTPClient returns an HTTPClient using http.DefaultClient.
type DefaultHTTPClient struct{}

func (DefaultHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}
