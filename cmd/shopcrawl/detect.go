package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/shopcrawl"
)

// Run executes the detect command.
func (c *DetectCmd) Run(deps *Dependencies) error {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shopcrawl.ErrorMessage(err))
		return err
	}

	page := shopcrawl.RawPage{URL: c.URL, HTML: html, FetchedAt: time.Now()}
	detection := deps.Detector.Detect(page)

	platform := string(detection.Platform)
	if detection.Platform == shopcrawl.PlatformUnknown {
		platform = "unknown"
	}

	fmt.Fprintf(deps.Stdout, "platform:   %s\n", platform)
	fmt.Fprintf(deps.Stdout, "page type:  %s\n", detection.PageType)
	fmt.Fprintf(deps.Stdout, "confidence: %.2f\n", detection.Confidence)

	return nil
}
