package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/shopcrawl"
)

// Ensure LoggingDetector implements shopcrawl.PlatformDetector.
var _ shopcrawl.PlatformDetector = (*LoggingDetector)(nil)

// LoggingDetector wraps a PlatformDetector with logging for platform
// and page-type detection.
type LoggingDetector struct {
	next   shopcrawl.PlatformDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next shopcrawl.PlatformDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector and logs the outcome.
func (d *LoggingDetector) Detect(page shopcrawl.RawPage) shopcrawl.Detection {
	begin := time.Now()
	detection := d.next.Detect(page)
	platform := string(detection.Platform)
	if detection.Platform == shopcrawl.PlatformUnknown {
		platform = "(unknown)"
	}
	d.logger.Info("platform detection",
		"url", page.URL,
		"platform", platform,
		"confidence", detection.Confidence,
		"pageType", string(detection.PageType),
		"duration", time.Since(begin),
	)
	return detection
}
