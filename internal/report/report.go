package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/narrate-flow/internal/ocr"
)

const defaultTitle = "문서 요약"

// Write stores <name>.md and <name>.docx in the output directory.
func (w *implWriter) Write(ctx context.Context, name string, result ocr.Result) (Paths, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}

	title := Title(result, name)
	md := w.markdown(title, result)

	paths := Paths{
		Markdown: filepath.Join(w.outputDir, name+".md"),
		Docx:     filepath.Join(w.outputDir, name+".docx"),
	}

	if err := os.WriteFile(paths.Markdown, []byte(md), 0644); err != nil {
		return Paths{}, fmt.Errorf("write markdown: %w", err)
	}
	if err := markdownToDocx(title, md, paths.Docx); err != nil {
		return Paths{}, fmt.Errorf("write docx: %w", err)
	}

	w.logger.Info(ctx, "Report written: %s, %s", paths.Markdown, paths.Docx)
	return paths, nil
}

// Title is the first bullet, else fallback, else a generic title.
func Title(result ocr.Result, fallback string) string {
	for _, b := range result.Bullets {
		if t := strings.TrimSpace(b); t != "" {
			return t
		}
	}
	if fallback != "" {
		return fallback
	}
	return defaultTitle
}

func (w *implWriter) markdown(title string, result ocr.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n_%s_\n\n", title, w.now().Format("2006-01-02 15:04"))

	if len(result.Bullets) > 0 {
		b.WriteString("## 요약\n\n")
		for _, bullet := range result.Bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
		b.WriteString("\n")
	}

	if len(result.NextActions) > 0 {
		b.WriteString("## 다음 할 일\n\n")
		for i, action := range result.NextActions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, action)
		}
		b.WriteString("\n")
	}

	if len(result.Tags) > 0 {
		keys := make([]string, 0, len(result.Tags))
		for k := range result.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("## 태그\n\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s**: %s\n", k, strings.Join(result.Tags[k], ", "))
		}
		b.WriteString("\n")
	}

	if text := strings.TrimSpace(result.DetectedText); text != "" {
		b.WriteString("## 원문\n\n")
		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String()
}
