package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// moveToArchived moves a processed photo out of the inbox
func (p *implProcessor) moveToArchived(ctx context.Context, photoPath string) error {
	if p.cfg == nil || p.cfg.Paths.Archived == "" {
		return nil
	}
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}

	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(photoPath))
	p.logger.Info(ctx, "Archiving: %s -> %s", photoPath, destPath)

	if err := os.Rename(photoPath, destPath); err == nil {
		return nil
	}

	// Rename fails across filesystems; copy then remove.
	if err := copyFile(photoPath, destPath); err != nil {
		return fmt.Errorf("archive photo: %w", err)
	}
	if err := os.Remove(photoPath); err != nil {
		p.logger.Warn(ctx, "Failed to remove archived photo from inbox %s: %v", photoPath, err)
	}
	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}
