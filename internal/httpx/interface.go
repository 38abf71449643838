package httpx

import (
	"context"
	"net/http"
	"time"
)

// Requester issues a single HTTP request bounded by a timeout.
// Closing the response body releases the timer.
type Requester interface {
	Do(ctx context.Context, req *http.Request, timeout time.Duration) (*http.Response, error)
}
