package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/narrate-flow/internal/errs"
	"github.com/nguyentantai21042004/narrate-flow/internal/httpx"
	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
)

var mp3Bytes = []byte("ID3\x03\x00fake-mp3-frames")

type call struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
}

// fakeService answers per "METHOD path" key; unknown keys get 404.
type fakeService struct {
	mu        sync.Mutex
	calls     []call
	responses map[string][]int
	delays    map[string]time.Duration
}

func newFakeService(responses map[string][]int) *fakeService {
	return &fakeService{responses: responses, delays: map[string]time.Duration{}}
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.calls = append(f.calls, call{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery, Body: string(body)})
	status := http.StatusNotFound
	if queue := f.responses[key]; len(queue) > 0 {
		status = queue[0]
		if len(queue) > 1 {
			f.responses[key] = queue[1:]
		}
	}
	delay := f.delays[key]
	delete(f.delays, key)
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(delay):
		}
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(mp3Bytes)
}

func (f *fakeService) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeService) countPath(method, path string) int {
	n := 0
	for _, c := range f.recorded() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func newTestAcquirer(t *testing.T, baseURL string, timeout time.Duration) (Acquirer, string) {
	t.Helper()
	cache := t.TempDir()
	cfg := Config{BaseURL: baseURL, CacheDir: cache, Timeout: timeout}
	return New(cfg, httpx.New(nil), logger.Nop()), cache
}

func TestAcquirePrimarySuccess(t *testing.T) {
	svc := newFakeService(map[string][]int{"POST /api/tts-summary": {200}})
	srv := httptest.NewServer(svc)
	defer srv.Close()

	acq, cache := newTestAcquirer(t, srv.URL, time.Second)
	payload := NewPayload([]string{"second", "first", "third"}, []string{"pay", "call"}, "second first third")

	file, err := acq.Acquire(context.Background(), payload, nil)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if !strings.HasPrefix(file.URI, "file://") {
		t.Errorf("URI = %s, want file:// prefix", file.URI)
	}
	if !strings.HasPrefix(file.Path, cache) {
		t.Errorf("Path = %s, want inside %s", file.Path, cache)
	}
	if file.Strategy != StrategySummaryStream {
		t.Errorf("Strategy = %s, want %s", file.Strategy, StrategySummaryStream)
	}
	data, err := os.ReadFile(file.Path)
	if err != nil || !bytes.Equal(data, mp3Bytes) {
		t.Errorf("saved file = %q, %v; want mp3 bytes", data, err)
	}

	calls := svc.recorded()
	if len(calls) != 1 {
		t.Fatalf("calls = %+v, want exactly one", calls)
	}
	if svc.countPath(http.MethodPost, "/api/tts") != 0 {
		t.Error("secondary endpoint contacted after primary success")
	}

	values, err := url.ParseQuery(calls[0].Body)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	if values.Get("mode") != "summary" {
		t.Errorf("mode = %q, want summary", values.Get("mode"))
	}
	var doc summaryDocument
	if err := json.Unmarshal([]byte(values.Get("summary_json")), &doc); err != nil {
		t.Fatalf("summary_json not JSON: %v", err)
	}
	if !reflect.DeepEqual(doc.Bullets, []string{"second", "first", "third"}) {
		t.Errorf("bullets = %v, want original order", doc.Bullets)
	}
	if !reflect.DeepEqual(doc.NextActions, []string{"pay", "call"}) {
		t.Errorf("next_actions = %v, want original order", doc.NextActions)
	}
}

func TestAcquireMethodNotAllowedRewritesToGet(t *testing.T) {
	svc := newFakeService(map[string][]int{
		"POST /api/tts-summary": {405},
		"GET /api/tts":          {200},
	})
	srv := httptest.NewServer(svc)
	defer srv.Close()

	acq, _ := newTestAcquirer(t, srv.URL, time.Second)
	file, err := acq.Acquire(context.Background(), NewPayload(nil, nil, "pay 500 by Friday"), nil)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if file.Strategy != StrategySummaryStreamGet {
		t.Errorf("Strategy = %s, want %s", file.Strategy, StrategySummaryStreamGet)
	}

	calls := svc.recorded()
	if len(calls) != 2 {
		t.Fatalf("calls = %+v, want 2", calls)
	}
	retry := calls[1]
	if retry.Method != http.MethodGet || retry.Path != "/api/tts" {
		t.Errorf("retry = %s %s, want GET /api/tts", retry.Method, retry.Path)
	}
	if retry.RawQuery != "text=pay%20500%20by%20Friday" {
		t.Errorf("retry query = %s, want text=pay%%20500%%20by%%20Friday", retry.RawQuery)
	}
	if retry.Body != "" {
		t.Errorf("GET retry carried a body: %q", retry.Body)
	}
}

func TestAcquireMethodNotAllowedExhausted(t *testing.T) {
	svc := newFakeService(map[string][]int{
		"POST /api/tts-summary": {405},
		"GET /api/tts":          {405},
	})
	srv := httptest.NewServer(svc)
	defer srv.Close()

	acq, _ := newTestAcquirer(t, srv.URL, time.Second)
	_, err := acq.Acquire(context.Background(), NewPayload([]string{"a"}, nil, "a"), nil)

	if !errs.IsMethodNotAllowed(err) {
		t.Fatalf("Acquire() error = %v, want 405", err)
	}
	if got := len(svc.recorded()); got != 4 {
		t.Errorf("calls = %d, want 4 (stream POST, stream GET, fetch POST, fetch GET)", got)
	}
	if svc.countPath(http.MethodPost, "/api/tts") != 0 {
		t.Error("secondary endpoint contacted after the GET path was exhausted")
	}
}

func TestAcquireMethodNotAllowedWithoutFallbackText(t *testing.T) {
	svc := newFakeService(map[string][]int{
		"POST /api/tts-summary": {405},
		"POST /api/tts":         {200},
	})
	srv := httptest.NewServer(svc)
	defer srv.Close()

	acq, _ := newTestAcquirer(t, srv.URL, time.Second)
	file, err := acq.Acquire(context.Background(), NewPayload([]string{"a"}, nil, ""), nil)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if file.Strategy != StrategyTextStream {
		t.Errorf("Strategy = %s, want %s", file.Strategy, StrategyTextStream)
	}
	if svc.countPath(http.MethodGet, "/api/tts") != 0 {
		t.Error("GET rewrite issued without fallback text")
	}
}

func TestAcquireSecondaryCycleOnce(t *testing.T) {
	svc := newFakeService(map[string][]int{
		"POST /api/tts-summary": {500},
		"POST /api/tts":         {502},
	})
	srv := httptest.NewServer(svc)
	defer srv.Close()

	acq, _ := newTestAcquirer(t, srv.URL, time.Second)
	_, err := acq.Acquire(context.Background(), NewPayload([]string{"a"}, nil, "read me"), nil)

	if got := errs.Status(err); got != http.StatusBadGateway {
		t.Errorf("Status(err) = %d, want 502 from the last attempt", got)
	}

	calls := svc.recorded()
	want := []string{
		"POST /api/tts-summary",
		"POST /api/tts-summary",
		"POST /api/tts",
		"POST /api/tts",
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %+v, want %v", calls, want)
	}
	for i, c := range calls {
		if got := c.Method + " " + c.Path; got != want[i] {
			t.Errorf("call %d = %s, want %s", i, got, want[i])
		}
	}
	if calls[2].Body != "text=read%20me" {
		t.Errorf("secondary body = %q, want text=read%%20me", calls[2].Body)
	}
}

func TestAcquireTimeoutMovesOn(t *testing.T) {
	svc := newFakeService(map[string][]int{"POST /api/tts-summary": {200}})
	svc.delays["POST /api/tts-summary"] = 5 * time.Second
	srv := httptest.NewServer(svc)
	defer srv.Close()

	acq, _ := newTestAcquirer(t, srv.URL, 150*time.Millisecond)

	start := time.Now()
	file, err := acq.Acquire(context.Background(), NewPayload([]string{"a"}, nil, "a"), nil)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if file.Strategy != StrategySummaryFetch {
		t.Errorf("Strategy = %s, want %s after the stream attempt timed out", file.Strategy, StrategySummaryFetch)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Acquire() took %s, want the first attempt aborted near 150ms", elapsed)
	}
}

func TestAcquireIndependentFiles(t *testing.T) {
	svc := newFakeService(map[string][]int{"POST /api/tts-summary": {200}})
	srv := httptest.NewServer(svc)
	defer srv.Close()

	acq, _ := newTestAcquirer(t, srv.URL, time.Second)
	payload := NewPayload([]string{"same"}, nil, "same")

	var wg sync.WaitGroup
	files := make([]AudioFile, 2)
	errList := make([]error, 2)
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			files[i], errList[i] = acq.Acquire(context.Background(), payload, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errList {
		if err != nil {
			t.Fatalf("Acquire() #%d error = %v", i, err)
		}
	}
	if files[0].Path == files[1].Path {
		t.Fatalf("both invocations wrote %s", files[0].Path)
	}
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil || !bytes.Equal(data, mp3Bytes) {
			t.Errorf("%s = %q, %v; want mp3 bytes", f.Path, data, err)
		}
	}
}

func TestAcquirePlayPolicy(t *testing.T) {
	svc := newFakeService(map[string][]int{"POST /api/tts-summary": {200}})
	srv := httptest.NewServer(svc)
	defer srv.Close()

	acq, _ := newTestAcquirer(t, srv.URL, time.Second)

	var played []AudioFile
	policy := func(ctx context.Context, f AudioFile) { played = append(played, f) }

	file, err := acq.Acquire(context.Background(), NewPayload([]string{"a"}, nil, "a"), policy)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if len(played) != 1 || played[0] != file {
		t.Errorf("policy calls = %+v, want once with %+v", played, file)
	}
}

func TestAcquireConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no base url", Config{CacheDir: "cache", Timeout: time.Second}},
		{"no cache dir", Config{BaseURL: "http://svc", Timeout: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := &scriptedDownloader{}
			acq := NewWithDownloaders(tt.cfg, stream, stream, logger.Nop())

			_, err := acq.Acquire(context.Background(), NewPayload([]string{"a"}, nil, "a"), nil)
			if !errs.IsConfig(err) {
				t.Errorf("Acquire() error = %v, want ConfigError", err)
			}
			if len(stream.requests) != 0 {
				t.Errorf("downloads = %d, want none before config check", len(stream.requests))
			}
		})
	}
}

// scriptedDownloader returns errs in order, then succeeds.
type scriptedDownloader struct {
	mu       sync.Mutex
	errs     []error
	requests []DownloadRequest
	returned []error
}

func (d *scriptedDownloader) Download(ctx context.Context, req DownloadRequest, dest string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		d.returned = append(d.returned, err)
		return 0, err
	}
	d.returned = append(d.returned, nil)
	return int64(len(mp3Bytes)), os.WriteFile(dest, mp3Bytes, 0644)
}

func TestAcquireStreamUnavailableFallsBackToFetch(t *testing.T) {
	stream := &scriptedDownloader{errs: []error{
		&errs.TransportError{Op: "POST", URL: "x", Err: errors.New("native downloader unavailable")},
	}}
	fetch := &scriptedDownloader{}

	cfg := Config{BaseURL: "http://svc", CacheDir: t.TempDir(), Timeout: time.Second}
	acq := NewWithDownloaders(cfg, stream, fetch, logger.Nop())

	file, err := acq.Acquire(context.Background(), NewPayload([]string{"a"}, nil, "a"), nil)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if file.Strategy != StrategySummaryFetch {
		t.Errorf("Strategy = %s, want %s", file.Strategy, StrategySummaryFetch)
	}
	if len(fetch.requests) != 1 {
		t.Fatalf("fetch requests = %d, want 1", len(fetch.requests))
	}
	if got, want := fetch.requests[0], stream.requests[0]; !reflect.DeepEqual(got, want) {
		t.Errorf("fetch request = %+v, want same as stream %+v", got, want)
	}
}

func TestAcquireSurfacesLastError(t *testing.T) {
	newErr := func(i int) error { return &errs.HTTPError{Status: 500 + i, URL: fmt.Sprintf("attempt-%d", i)} }
	stream := &scriptedDownloader{errs: []error{newErr(0), newErr(2)}}
	fetch := &scriptedDownloader{errs: []error{newErr(1), newErr(3)}}

	cfg := Config{BaseURL: "http://svc", CacheDir: t.TempDir(), Timeout: time.Second}
	acq := NewWithDownloaders(cfg, stream, fetch, logger.Nop())

	_, err := acq.Acquire(context.Background(), NewPayload([]string{"a"}, nil, "a"), nil)

	last := fetch.returned[len(fetch.returned)-1]
	if err != last {
		t.Errorf("Acquire() error = %v, want the last attempt's error %v", err, last)
	}
	if len(stream.requests)+len(fetch.requests) != 4 {
		t.Errorf("attempts = %d, want 4", len(stream.requests)+len(fetch.requests))
	}
}

func TestAcquireParentCancelStopsLadder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream := &cancellingDownloader{cancel: cancel}
	fetch := &scriptedDownloader{}

	cfg := Config{BaseURL: "http://svc", CacheDir: t.TempDir(), Timeout: time.Second}
	acq := NewWithDownloaders(cfg, stream, fetch, logger.Nop())

	_, err := acq.Acquire(ctx, NewPayload([]string{"a"}, nil, "a"), nil)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire() error = %v, want context.Canceled", err)
	}
	if len(fetch.requests) != 0 {
		t.Errorf("fetch requests = %d, want none after cancellation", len(fetch.requests))
	}
}

type cancellingDownloader struct {
	cancel context.CancelFunc
}

func (d *cancellingDownloader) Download(ctx context.Context, req DownloadRequest, dest string) (int64, error) {
	d.cancel()
	return 0, ctx.Err()
}
