package calendar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTitle    = "문서 일정"
	maxDescription  = 1000
	defaultLeadTime = 10 * time.Minute
	defaultDuration = time.Hour
	icsTimeLayout   = "20060102T150405"
)

var reDate = regexp.MustCompile(`(20\d{2})[./-](\d{1,2})[./-](\d{1,2})`)

// ParseDate finds the first YYYY-M-D date in raw ("-", "." or "/" separated,
// month and day with one or two digits) and returns 09:00 local on that day.
// ok is false when there is none or it is not a real calendar day.
func ParseDate(raw string) (time.Time, bool) {
	m := reDate.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	d := time.Date(year, time.Month(month), day, 9, 0, 0, 0, time.Local)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// Export writes event_<uuid>.ics and returns its path.
func (e *implExporter) Export(ctx context.Context, event Event) (string, error) {
	if e.cacheDir == "" {
		return "", fmt.Errorf("calendar export: cache directory is not set")
	}
	if err := os.MkdirAll(e.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(e.cacheDir, "event_"+id+".ics")

	if err := os.WriteFile(path, []byte(e.render(id, event)), 0644); err != nil {
		return "", fmt.Errorf("write ics: %w", err)
	}

	e.logger.Info(ctx, "Calendar event exported: %s", path)
	return path, nil
}

func (e *implExporter) render(id string, event Event) string {
	now := e.now()

	start := event.Start
	if start.IsZero() {
		start = now.Add(defaultLeadTime)
	}
	end := event.End
	if end.IsZero() || !end.After(start) {
		end = start.Add(defaultDuration)
	}
	title := event.Title
	if strings.TrimSpace(title) == "" {
		title = defaultTitle
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//DINURI//KR",
		"BEGIN:VEVENT",
		"UID:" + id + "@dinuri",
		"DTSTAMP:" + now.Format(icsTimeLayout),
		"DTSTART:" + start.Format(icsTimeLayout),
		"DTEND:" + end.Format(icsTimeLayout),
		"SUMMARY:" + escapeText(title),
		"DESCRIPTION:" + escapeText(truncate(event.Description, maxDescription)),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\r\n", `\n`, "\n", `\n`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
