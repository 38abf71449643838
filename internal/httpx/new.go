package httpx

import "net/http"

type implRequester struct {
	client *http.Client
}

// New creates a Requester on top of client. A nil client means http.DefaultClient.
func New(client *http.Client) Requester {
	if client == nil {
		client = http.DefaultClient
	}
	return &implRequester{client: client}
}
