package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/narrate-flow/internal/errs"
)

// Do sends req with a deadline of timeout. A non-positive timeout means no deadline.
// Deadline expiry is reported as *errs.TimeoutError, other network failures as
// *errs.TransportError and cancellation of ctx as ctx.Err().
func (r *implRequester) Do(ctx context.Context, req *http.Request, timeout time.Duration) (*http.Response, error) {
	var (
		callCtx context.Context
		cancel  context.CancelFunc
	)
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		callCtx, cancel = context.WithCancel(ctx)
	}

	res, err := r.client.Do(req.WithContext(callCtx))
	if err != nil {
		cancel()
		return nil, classify(ctx, callCtx, req, timeout, err)
	}

	res.Body = &boundedBody{
		ReadCloser: res.Body,
		parent:     ctx,
		callCtx:    callCtx,
		cancel:     cancel,
		req:        req,
		timeout:    timeout,
	}
	return res, nil
}

// boundedBody keeps the call deadline alive while the body is read
// and releases it on Close.
type boundedBody struct {
	io.ReadCloser
	parent  context.Context
	callCtx context.Context
	cancel  context.CancelFunc
	req     *http.Request
	timeout time.Duration
}

func (b *boundedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = classify(b.parent, b.callCtx, b.req, b.timeout, err)
	}
	return n, err
}

func (b *boundedBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}

func classify(parent, callCtx context.Context, req *http.Request, timeout time.Duration, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &errs.TimeoutError{URL: req.URL.String(), Timeout: timeout}
	}
	return &errs.TransportError{Op: req.Method, URL: req.URL.String(), Err: err}
}
