package helpers

import (
	"net/http"
	"time"

	"github.com/Seklfreak/highlights/version"
	"github.com/sethgrid/pester"
)

var DEFAULT_UA = "HighlightsBot/" + version.BOT_VERSION + " (https://github.com/Seklfreak/highlights)"

// NewHTTPClient returns a retrying client for outgoing requests
func NewHTTPClient(timeout time.Duration, retries int) *pester.Client {
	client := pester.NewExtendedClient(&http.Client{
		Timeout: timeout,
	})
	client.Concurrency = 1
	client.MaxRetries = retries
	client.Backoff = pester.ExponentialJitterBackoff
	client.KeepLog = false
	return client
}
