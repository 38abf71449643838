package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path"
	"strings"

	"github.com/nguyentantai21042004/narrate-flow/internal/errs"
)

const summarizePath = "/api/ocr-summarize"

// Summarize uploads the photo at photoPath as a single multipart image part.
func (s *implSummarizer) Summarize(ctx context.Context, photoPath string) (Result, error) {
	if s.baseURL == "" {
		return Result{}, &errs.ConfigError{
			Key:     "service.base_url",
			Message: "server address is not set; set service.base_url or the API_URL environment variable",
		}
	}

	body, contentType, err := buildImageForm(photoPath)
	if err != nil {
		return Result{}, err
	}

	url := s.baseURL + summarizePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	s.logger.Debug(ctx, "Uploading %s to %s", photoPath, url)

	res, err := s.requester.Do(ctx, req, s.timeout)
	if err != nil {
		return Result{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		text, _ := io.ReadAll(res.Body)
		return Result{}, &errs.HTTPError{Status: res.StatusCode, Body: strings.TrimSpace(string(text)), URL: url}
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return Result{}, err
	}

	result, err := decodeResult(payload)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info(ctx, "Summary received: %d bullets, %d next actions, %d tags",
		len(result.Bullets), len(result.NextActions), len(result.Tags))
	return result, nil
}

// buildImageForm returns a multipart body holding photoPath as the "image" part.
func buildImageForm(photoPath string) (*bytes.Buffer, string, error) {
	data, err := os.ReadFile(strings.TrimPrefix(photoPath, "file://"))
	if err != nil {
		return nil, "", fmt.Errorf("read photo: %w", err)
	}

	name := imageName(photoPath)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(name)))
	header.Set("Content-Type", imageContentType(name))

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write image part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

// imageName is the last path element without any query suffix.
func imageName(photoPath string) string {
	name := path.Base(strings.ReplaceAll(photoPath, "\\", "/"))
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "." || name == "/" {
		return "image.jpg"
	}
	return name
}

func imageContentType(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
