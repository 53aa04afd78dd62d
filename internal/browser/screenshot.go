package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// CaptureScreenshot writes a full-page PNG into dir, creating the
// directory on first use. Filenames embed the label and a millisecond
// timestamp so concurrent pipelines never collide. This is a debug
// side channel only; failures are returned but callers treat them as
// non-fatal.
func CaptureScreenshot(page *rod.Page, dir, label string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshots dir: %w", err)
	}

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%d.png", label, time.Now().UnixMilli()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}
