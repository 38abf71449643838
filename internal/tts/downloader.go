package tts

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/nguyentantai21042004/narrate-flow/internal/errs"
	"github.com/nguyentantai21042004/narrate-flow/internal/httpx"
)

// errBodyLimit caps how much of a failed response is kept in errs.HTTPError.
const errBodyLimit = 4 << 10

type streamDownloader struct {
	requester httpx.Requester
}

// NewStreamDownloader copies the response body straight into the destination file.
func NewStreamDownloader(requester httpx.Requester) Downloader {
	return &streamDownloader{requester: requester}
}

func (d *streamDownloader) Download(ctx context.Context, dr DownloadRequest, dest string) (int64, error) {
	res, err := send(ctx, d.requester, dr)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return 0, &errs.TransportError{Op: "create", URL: dest, Err: err}
	}

	n, err := io.Copy(f, res.Body)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = &errs.TransportError{Op: "write", URL: dest, Err: closeErr}
	}
	if err != nil {
		removeQuietly(dest)
		return 0, asTransportError(err, dr)
	}

	return n, nil
}

type fetchDownloader struct {
	requester httpx.Requester
}

// NewFetchDownloader buffers the whole response in memory before writing it.
func NewFetchDownloader(requester httpx.Requester) Downloader {
	return &fetchDownloader{requester: requester}
}

func (d *fetchDownloader) Download(ctx context.Context, dr DownloadRequest, dest string) (int64, error) {
	res, err := send(ctx, d.requester, dr)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, asTransportError(err, dr)
	}

	if err := os.WriteFile(dest, data, 0644); err != nil {
		removeQuietly(dest)
		return 0, &errs.TransportError{Op: "write", URL: dest, Err: err}
	}

	return int64(len(data)), nil
}

// send issues dr and returns the response only when the status is exactly 200.
func send(ctx context.Context, requester httpx.Requester, dr DownloadRequest) (*http.Response, error) {
	var body io.Reader
	if dr.Method == http.MethodPost {
		body = strings.NewReader(dr.Body)
	}

	req, err := http.NewRequestWithContext(ctx, dr.Method, dr.URL, body)
	if err != nil {
		return nil, &errs.TransportError{Op: dr.Method, URL: dr.URL, Err: err}
	}
	req.Header.Set("Accept", "audio/mpeg")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	res, err := requester.Do(ctx, req, dr.Timeout)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(res.Body, errBodyLimit))
		res.Body.Close()
		return nil, &errs.HTTPError{Status: res.StatusCode, Body: strings.TrimSpace(string(text)), URL: dr.URL}
	}

	return res, nil
}

// asTransportError keeps typed errors from the bounded request and wraps the rest.
func asTransportError(err error, dr DownloadRequest) error {
	var (
		timeoutErr   *errs.TimeoutError
		transportErr *errs.TransportError
	)
	if errors.As(err, &timeoutErr) || errors.As(err, &transportErr) ||
		errors.Is(err, context.Canceled) {
		return err
	}
	return &errs.TransportError{Op: dr.Method, URL: dr.URL, Err: err}
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
