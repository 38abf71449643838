package tts

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// SummaryPayload is what gets narrated.
type SummaryPayload struct {
	Bullets     []string
	NextActions []string
	// FallbackText feeds the plain /api/tts endpoint, both as the GET query
	// after a 405 and as the POST body of the secondary cycle.
	FallbackText string
}

// NewPayload builds a payload, synthesizing [fallbackText] when bullets is empty.
func NewPayload(bullets, nextActions []string, fallbackText string) SummaryPayload {
	if len(bullets) == 0 && fallbackText != "" {
		bullets = []string{fallbackText}
	}
	return SummaryPayload{
		Bullets:      bullets,
		NextActions:  nextActions,
		FallbackText: fallbackText,
	}
}

// DownloadRequest describes one attempt.
type DownloadRequest struct {
	URL          string
	Method       string
	Body         string
	Timeout      time.Duration
	FallbackText string
}

// AudioFile is a saved narration in the cache directory.
type AudioFile struct {
	Path     string
	URI      string
	Size     int64
	Strategy string
}

type summaryDocument struct {
	Bullets     []string `json:"bullets"`
	NextActions []string `json:"next_actions"`
}

// SummaryJSON is the summary_json field value: {"bullets":[...],"next_actions":[...]}.
func (p SummaryPayload) SummaryJSON() string {
	doc := summaryDocument{Bullets: p.Bullets, NextActions: p.NextActions}
	if doc.Bullets == nil {
		doc.Bullets = []string{}
	}
	if doc.NextActions == nil {
		doc.NextActions = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct of string slices cannot fail.
	_ = enc.Encode(doc)
	return strings.TrimSuffix(buf.String(), "\n")
}

// summaryForm is the /api/tts-summary body.
func (p SummaryPayload) summaryForm() string {
	return "summary_json=" + encodeURIComponent(p.SummaryJSON()) + "&mode=summary"
}

// textForm is the /api/tts POST body.
func textForm(text string) string {
	return "text=" + encodeURIComponent(text)
}

// textQueryURL is the /api/tts GET form.
func textQueryURL(endpoint, text string) string {
	return endpoint + "?" + textForm(text)
}

// encodeURIComponent percent-encodes s with spaces as %20.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
